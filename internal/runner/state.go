/*
Copyright 2025.

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

package runner

import "fmt"

// State is a benchmark's position in the pipeline state machine (spec.md
// §4.5): Created → Initialised → Encoded → Loaded → Operated → Stored →
// Validated → Destroyed. Run reports a State only on success
// (StateValidated); on failure it releases its handles in LIFO order and
// returns no Result, so no failure state is recorded.
type State int

const (
	StateCreated State = iota
	StateInitialised
	StateEncoded
	StateLoaded
	StateOperated
	StateStored
	StateValidated
	StateDestroyed
)

func (s State) String() string {
	switch s {
	case StateCreated:
		return "Created"
	case StateInitialised:
		return "Initialised"
	case StateEncoded:
		return "Encoded"
	case StateLoaded:
		return "Loaded"
	case StateOperated:
		return "Operated"
	case StateStored:
		return "Stored"
	case StateValidated:
		return "Validated"
	case StateDestroyed:
		return "Destroyed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}
