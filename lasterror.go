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

import (
	"math/bits"

	"dirpx.dev/lasterror/code"
)

// InitialCapacity is the smallest owned-buffer allocation. The first copying
// set allocates at least this much; growth beyond it rounds up to the next
// power of two. The buffer never shrinks for the life of the Context.
const InitialCapacity = 128

// infoState tags the message slot of a Context.
//
// Modeling the slot as an explicit variant (instead of a bare string that may
// or may not alias the owned buffer) keeps the borrowed-vs-owned distinction
// visible in the code rather than buried in a pointer convention.
type infoState uint8

const (
	infoEmpty    infoState = iota // no message
	infoBorrowed                  // message aliases the caller's string
	infoOwned                     // message lives in the owned buffer
)

// Context is a single task's last-error record: the most recent packed code
// plus an optional human-readable message.
//
// A Context belongs to exactly one goroutine (or one request, one worker —
// whatever unit of execution the embedding application hands it to). Because
// ownership is exclusive there is no locking anywhere in this type; handing
// the same Context to two goroutines is a caller bug. For per-request
// plumbing see NewContext / FromContext.
//
// The zero value is ready to use: code 0 ("no error"), no message, no buffer.
// The owned buffer is allocated lazily by the first SetInfoCopy and is
// released by Close.
type Context struct {
	last  code.Code
	state infoState

	// borrowed holds the caller's message when state == infoBorrowed.
	// Go strings are immutable, so unlike a borrowed C pointer this can never
	// dangle; the remaining contract is only that the value is replaced by
	// the next SetInfo*/Clear/Close.
	borrowed string

	// buf is the owned message buffer; len(buf) is its capacity. Only the
	// first n bytes hold the current message (state == infoOwned).
	buf []byte
	n   int
}

// New returns a fresh, empty Context. Equivalent to new(Context); provided
// for symmetry with the rest of the package.
func New() *Context {
	return &Context{}
}

// SetCode stores the packed code, masked to the 53-bit envelope. Bits above
// position 52 are silently dropped, never rejected. The message slot is not
// touched — callers that want code and message updated together use SetInfo
// or SetInfoCopy.
func (c *Context) SetCode(ec code.Code) {
	c.last = ec & code.ValidMask
}

// Code returns the stored packed code. Zero means "no error": either nothing
// was ever set, or the record was cleared.
func (c *Context) Code() code.Code {
	return c.last
}

// SetInfo stores the packed code together with a message, without copying.
//
// The message is kept by reference. That is cheap and allocation-free, but it
// means Info returns exactly the string the caller passed until the next
// SetInfo, SetInfoCopy, Clear, or Close. Use SetInfoCopy when the message was
// built in a scratch buffer that will be reused.
func (c *Context) SetInfo(ec code.Code, msg string) {
	c.SetCode(ec)
	c.state = infoBorrowed
	c.borrowed = msg
}

// SetInfoCopy stores the packed code together with a copy of the message.
//
// The bytes are copied into the Context's owned buffer, growing it first if
// needed, so the caller is free to reuse or discard msg immediately. A nil
// msg is a contract violation: the code is not stored, the message slot is
// left untouched, and the call is a no-op. (An empty but non-nil msg is fine
// and stores an empty message.)
//
// Growth policy: required capacity is len(msg)+1, rounded up to the next
// power of two with a floor of InitialCapacity. Capacity only grows, never
// shrinks. Allocation failure panics, as Go allocations do; the buffer is
// never left half-updated.
func (c *Context) SetInfoCopy(ec code.Code, msg []byte) {
	if msg == nil {
		return
	}
	c.SetCode(ec)

	if need := len(msg) + 1; need > len(c.buf) {
		// Grow realloc-style, carrying the old contents over.
		nb := make([]byte, grownCapacity(need))
		copy(nb, c.buf[:c.n])
		c.buf = nb
	}
	c.n = copy(c.buf, msg)
	c.state = infoOwned
	c.borrowed = ""
}

// Info returns the current message, or "" when there is none. It never
// reports absence any other way, so callers need no nil checks.
//
// The returned string must be treated as valid only until the next mutating
// call on this Context.
func (c *Context) Info() string {
	switch c.state {
	case infoBorrowed:
		return c.borrowed
	case infoOwned:
		return string(c.buf[:c.n])
	default:
		return ""
	}
}

// Capacity returns the owned buffer's current capacity in bytes, 0 before the
// first SetInfoCopy. Borrowing setters never change it.
func (c *Context) Capacity() int {
	return len(c.buf)
}

// Clear resets the record to "no error": code 0 and no message.
//
// The owned buffer is retained for reuse, but its used prefix is zeroed so a
// stale message cannot resurface through any reader still holding an old
// view of the buffer.
func (c *Context) Clear() {
	c.last = code.None
	c.state = infoEmpty
	c.borrowed = ""
	if c.n > 0 {
		clear(c.buf[:c.n])
		c.n = 0
	}
}

// Close releases the owned buffer and resets the record to "no error".
//
// Call it once when the owning task finishes (typically via defer). It is
// idempotent: closing a Context that never allocated, or closing twice, is
// safe. A Context may keep being used after Close — it is back to the zero
// state — but that is rarely what you want.
func (c *Context) Close() error {
	c.last = code.None
	c.state = infoEmpty
	c.borrowed = ""
	c.buf = nil
	c.n = 0
	return nil
}

// grownCapacity rounds the required size up to the next power of two, floored
// at InitialCapacity.
func grownCapacity(need int) int {
	if need <= InitialCapacity {
		return InitialCapacity
	}
	return 1 << bits.Len(uint(need-1))
}
