// Copyright 2025 SirSeer, LLC
//
// Licensed under the Business Source License 1.1 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://mariadb.com/bsl11
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package output streams filing results as NDJSON (Newline Delimited JSON),
// one Record per issue considered during a sync. Each line is written and
// flushed as soon as the issue is handled, so a run that aborts half way
// still leaves a record of what it already did.
//
// Example usage:
//
//	w, err := output.Open("results.ndjson", os.Stdout) // "-" writes to the second argument
//	if err != nil {
//	    return err
//	}
//	defer w.Close()
//
//	if err := w.Write(rec); err != nil {
//	    return err
//	}
package output
