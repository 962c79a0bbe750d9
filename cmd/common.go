/*
Copyright © 2025 Valentyn Solomko <valentyn.solomko@gmail.com>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/valpere/bedtale/internal"
)

// collectRequest fills empty request fields by prompting on the terminal.
// Fields already supplied via flags are kept.
func collectRequest(req *internal.StoryRequest, in io.Reader, out io.Writer) error {
	reader := bufio.NewReader(in)

	prompts := []struct {
		label string
		field *string
	}{
		{"What should the name of the character be", &req.CharacterName},
		{"How long do you want the story to be", &req.Length},
		{"What setting should the story take place in (e.g. 'Forest', 'City')", &req.Setting},
		{"What tone should the story have (e.g. 'adventurous and exciting', 'calm and cozy')", &req.Tone},
		{"Any additional instructions (optional)", &req.Additional},
	}

	for _, p := range prompts {
		if *p.field != "" {
			continue
		}
		fmt.Fprintf(out, "%s: ", p.label)
		line, err := reader.ReadString('\n')
		if err != nil && err != io.EOF {
			return fmt.Errorf("failed to read input: %w", err)
		}
		*p.field = strings.TrimSpace(line)
		if err == io.EOF {
			break
		}
	}

	return nil
}

// snippet shortens text for tabular display.
func snippet(text string, max int) string {
	text = strings.Join(strings.Fields(text), " ")
	if len(text) > max {
		return text[:max-3] + "..."
	}
	return text
}
