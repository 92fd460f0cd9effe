// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package openai

import "strings"

// repairJSON fixes the malformations small local models produce when asked
// for JSON: chatter around the object, trailing commas, Python-style
// literals, and keys that lost their opening quote. It never guarantees
// valid JSON; the caller reparses and retries on failure.
func repairJSON(s string) string {
	s = isolateObject(s)
	s = replacePythonLiterals(s)
	s = dropTrailingCommas(s)
	s = requoteKeys(s)
	return s
}

// isolateObject cuts the response down to the outermost {...} span,
// discarding any preamble or trailing commentary the model added.
func isolateObject(s string) string {
	start := strings.IndexByte(s, '{')
	end := strings.LastIndexByte(s, '}')
	if start < 0 || end <= start {
		return s
	}
	return s[start : end+1]
}

// replacePythonLiterals maps True/False/None to their JSON forms outside
// of string values.
func replacePythonLiterals(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	inString := false
	for i := 0; i < len(s); i++ {
		if s[i] == '"' && (i == 0 || s[i-1] != '\\') {
			inString = !inString
		}
		if !inString {
			switch {
			case strings.HasPrefix(s[i:], "True"):
				b.WriteString("true")
				i += 3
				continue
			case strings.HasPrefix(s[i:], "False"):
				b.WriteString("false")
				i += 4
				continue
			case strings.HasPrefix(s[i:], "None"):
				b.WriteString("null")
				i += 3
				continue
			}
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

// dropTrailingCommas removes commas directly preceding a closing brace or
// bracket, ignoring whitespace between them.
func dropTrailingCommas(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	inString := false
	for i := 0; i < len(s); i++ {
		if s[i] == '"' && (i == 0 || s[i-1] != '\\') {
			inString = !inString
		}
		if !inString && s[i] == ',' {
			j := i + 1
			for j < len(s) && (s[j] == ' ' || s[j] == '\n' || s[j] == '\t' || s[j] == '\r') {
				j++
			}
			if j < len(s) && (s[j] == '}' || s[j] == ']') {
				continue
			}
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

// requoteKeys restores the opening quote on object keys that lost it, a
// pattern like `{type": "article"}` seen from quantized models. Only a
// bare word between a { or , and a `":` sequence is treated as a broken
// key.
func requoteKeys(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 8)
	inString := false
	for i := 0; i < len(s); i++ {
		ch := s[i]
		if ch == '"' && (i == 0 || s[i-1] != '\\') {
			inString = !inString
		}
		b.WriteByte(ch)
		if inString || (ch != '{' && ch != ',') {
			continue
		}

		j := i + 1
		for j < len(s) && (s[j] == ' ' || s[j] == '\n' || s[j] == '\t') {
			j++
		}
		start := j
		for j < len(s) && (isKeyByte(s[j])) {
			j++
		}
		if j > start && j+1 < len(s) && s[j] == '"' && s[j+1] == ':' {
			b.WriteString(s[i+1 : start])
			b.WriteByte('"')
			b.WriteString(s[start:j])
			i = j - 1
		}
	}
	return b.String()
}

func isKeyByte(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}
