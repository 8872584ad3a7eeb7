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

package lasterror

import "context"

// ctxKey is the private key type for Context values carried in a
// context.Context. A private struct type cannot collide with keys from other
// packages.
type ctxKey struct{}

// NewContext returns a child of parent carrying a fresh error Context, along
// with the Context itself.
//
// This is the per-task provisioning entry point: a server boundary derives
// one store per request/RPC, hands the derived context to the handler chain,
// and closes the store when the task finishes. Each task gets its own
// isolated record, so concurrent tasks never observe each other's errors.
//
//	ctx, lec := lasterror.NewContext(ctx)
//	defer lec.Close()
func NewContext(parent context.Context) (context.Context, *Context) {
	lec := New()
	return context.WithValue(parent, ctxKey{}, lec), lec
}

// FromContext returns the error Context carried by ctx, if any.
//
// The second return is false when no store was provisioned upstream; callers
// in library code should then simply skip error recording rather than fail.
func FromContext(ctx context.Context) (*Context, bool) {
	lec, ok := ctx.Value(ctxKey{}).(*Context)
	return lec, ok
}
