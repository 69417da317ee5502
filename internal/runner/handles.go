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

import "github.com/hebench/frontend-sub001/internal/bridge"

// handleStack tracks every handle a pipeline run acquires so cleanup can
// destroy them in LIFO order on every exit path, success or failure
// (spec.md §3 Lifecycle, §5 Resource acquisition).
type handleStack struct {
	proxy   *bridge.Proxy
	handles []bridge.Handle
}

func newHandleStack(proxy *bridge.Proxy) *handleStack {
	return &handleStack{proxy: proxy}
}

func (s *handleStack) push(h bridge.Handle) bridge.Handle {
	s.handles = append(s.handles, h)
	return h
}

// unwind destroys every tracked handle in LIFO order, collecting the first
// error encountered but still attempting every destruction.
func (s *handleStack) unwind() error {
	var firstErr error
	for i := len(s.handles) - 1; i >= 0; i-- {
		if err := s.proxy.Destroy(s.handles[i]); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	s.handles = nil
	return firstErr
}
