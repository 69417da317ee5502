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

package harness

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// validatePath rejects symlinks and paths rooted under /tmp for the two
// security-sensitive CLI inputs, the backend library and the config file
// (spec.md §6).
func validatePath(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolving path %q: %w", path, err)
	}
	if abs == "/tmp" || strings.HasPrefix(abs, "/tmp/") {
		return fmt.Errorf("path %q falls under /tmp, which is not permitted", path)
	}
	info, err := os.Lstat(path)
	if err != nil {
		if os.IsNotExist(err) {
			// --dump_config writes a config file that does not exist yet;
			// there is nothing to reject until something is there.
			return nil
		}
		return fmt.Errorf("stat %q: %w", path, err)
	}
	if info.Mode()&os.ModeSymlink != 0 {
		return fmt.Errorf("path %q is a symlink, which is not permitted", path)
	}
	return nil
}
