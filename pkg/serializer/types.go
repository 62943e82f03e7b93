// Copyright (c) 2025, Crucible Authors.  All rights reserved.
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

// Package serializer provides utilities for reading and writing crucible
// resources in various formats.
//
// The package supports three output formats:
//   - JSON: machine-readable structured data with indentation
//   - YAML: human-readable configuration format
//   - Table: human-readable tabular output with flattened keys
//
// Usage:
//
//	w := serializer.NewWriter(serializer.FormatYAML, os.Stdout)
//	defer w.Close()
//	if err := w.Serialize(info); err != nil {
//		log.Fatal(err)
//	}
package serializer

// Serializer is an interface for writing resource data. Implementations
// serialize to various formats such as JSON, YAML, or tables.
type Serializer interface {
	Serialize(v any) error
}

// Closer is an optional interface that Serializers can implement if they
// need to release resources (e.g. close file handles).
type Closer interface {
	Close() error
}
