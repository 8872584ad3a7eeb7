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

// Package code implements the packed 53-bit error code used throughout
// lasterror.
//
// A packed code combines five bit-fields — specific error number, coarse
// status category, component ID, software ID, and a reserved field — into a
// single 64-bit value whose top 11 bits must stay zero. The packing and
// unpacking functions here are pure and stateless; they are the codec half of
// the lasterror facility, with the mutable per-task store living in the root
// package.
//
// IMPORTANT: construction masks every field to its declared width. Values that
// do not fit are silently truncated, never rejected. This is deliberate policy
// (codes are diagnostics, not validated input), but it means a caller that
// packs an out-of-range component ID gets a different code than it expected
// with no error to tell it so.
package code
