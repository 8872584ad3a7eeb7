/*
   Copyright 2025 The DIRPX Authors

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

// Package status defines the 17-value coarse outcome enumeration carried in
// the status field of a packed error code.
//
// The ordinals (OK=0 .. UNAUTHENTICATED=16) are a wire contract consumed by
// the HTTP and gRPC projections and by external readers of packed codes;
// renumbering them breaks interoperability. Every mapping in this package is
// total: unknown values degrade to a sentinel name and HTTP 500 instead of
// producing an error.
package status
