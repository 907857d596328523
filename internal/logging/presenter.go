// Copyright (c) 2025 evaldb
// Licensed under the MIT License. See LICENSE file in the project root for details.

package logging

// PresentError renders err for display, prefixed with the command or
// component it came from. Keys and credentials are masked.
func PresentError(origin string, err error) string {
	if err == nil {
		return ""
	}
	msg := Mask(err.Error())
	if origin == "" {
		return msg
	}
	return origin + ": " + msg
}
