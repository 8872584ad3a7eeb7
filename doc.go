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

// Package lasterror provides a per-task "last error" record: a packed 53-bit
// error code (see dirpx.dev/lasterror/code) plus an optional human-readable
// message, stored without locks because each record is owned by exactly one
// unit of execution.
//
// It lets deeply nested library code signal failure without threading error
// returns through every call, while staying safe under concurrency: every
// task (goroutine, request, worker) gets its own Context, and nothing is
// shared between them.
//
// # Lifecycle
//
// A Context starts at the zero state — code 0 ("no error"), empty message, no
// buffer. The message buffer is allocated lazily by the first copying set and
// grows in powers of two, never shrinking. Close releases the buffer; call it
// when the owning task finishes, typically with defer:
//
//	lec := lasterror.New()
//	defer lec.Close()
//
//	lec.SetInfo(code.New32(7, status.NotFound, 0x12), "user record missing")
//	if ec := lec.Code(); ec != code.None {
//	    log.Printf("%s: %s", ec, lec.Info())
//	}
//
// For request-scoped plumbing, NewContext/FromContext carry a store through a
// context.Context; the httpx and grpcx subpackages provision and close one
// per request automatically.
//
// # Borrow vs copy
//
// SetInfo keeps the caller's string by reference (no allocation); SetInfoCopy
// copies the bytes into the owned buffer so the caller may reuse its scratch
// space. In both cases the stored message is replaced wholesale by the next
// mutating call — never retain what Info returned across such calls.
package lasterror
