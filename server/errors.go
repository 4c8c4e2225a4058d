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

package server

import "errors"

var (
	// ErrDocumentRepositoryRequired is returned when a nil document repository is provided.
	ErrDocumentRepositoryRequired = errors.New("document repository is required")
	// ErrCourseRepositoryRequired is returned when a nil course repository is provided.
	ErrCourseRepositoryRequired = errors.New("course repository is required")
	// ErrBlobRepositoryRequired is returned when a nil blob repository is provided.
	ErrBlobRepositoryRequired = errors.New("blob repository is required")
	// ErrAnswererRequired is returned when a nil answerer is provided.
	ErrAnswererRequired = errors.New("answerer is required")
	// ErrRunnerRequired is returned when a nil job runner is provided.
	ErrRunnerRequired = errors.New("job runner is required")
)
