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

// Package issuesync runs one synchronization of open issues into a project
// board.
//
// The steps are strictly sequential: resolve the project, list every item
// already on it, then for each repository in the order given list its open
// issues and file the ones missing from the board. Filing depends on the
// complete set of existing items, so no repository is looked at before the
// board has been read to the end.
//
// The first filing failure stops the run. The Summary returned alongside
// the error still tells what was added before it.
package issuesync
