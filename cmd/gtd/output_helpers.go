package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/grouptodo/gtd/api"
)

func encodeJSONToStdout(value any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(value)
}

// describePermissionError rewrites a 403 into a message naming the role
// requirement; other errors pass through.
func describePermissionError(err error, action string) error {
	if api.IsPermissionDenied(err) {
		return fmt.Errorf("your role in this group does not allow you to %s", action)
	}
	return err
}
