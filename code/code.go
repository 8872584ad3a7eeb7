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

package code

import (
	"bytes"
	"encoding"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"google.golang.org/grpc/codes"

	"dirpx.dev/lasterror/status"
)

// Code is a packed error code: a 64-bit unsigned value of which only the low
// 53 bits are significant.
//
// The layout is a fixed wire contract shared with every component that reads
// these codes (loggers, RPC boundaries, dashboards):
//
//	| Bits    | Field        | Width | Meaning                       |
//	|---------|--------------|-------|-------------------------------|
//	| [52:40] | Reserved     | 13    | reserved for future use       |
//	| [39:32] | Software ID  | 8     | product/binary identifier     |
//	| [31:21] | Component ID | 11    | subsystem/module identifier   |
//	| [20:16] | Status       | 5     | coarse category (status.*)    |
//	| [15:0]  | Error Code   | 16    | specific failure number       |
//
// The zero Code is the designated success sentinel: every consumer MUST treat
// Code(0) as "no error".
type Code uint64

// Bit positions of the packed fields.
const (
	ErrorCodeShift = 0
	StatusShift    = 16
	ComponentShift = 21
	SoftwareShift  = 32
	ReservedShift  = 40
)

// Widths of the packed fields, in bits.
const (
	ErrorCodeWidth = 16
	StatusWidth    = 5
	ComponentWidth = 11
	SoftwareWidth  = 8
	ReservedWidth  = 13
)

// Field masks, pre-shifted to their positions in the packed value.
const (
	ErrorCodeMask Code = 0x000000000000FFFF
	StatusMask    Code = 0x00000000001F0000
	ComponentMask Code = 0x00000000FFE00000
	SoftwareMask  Code = 0x000000FF00000000
	ReservedMask  Code = 0x001FFF0000000000

	// ValidMask covers every significant bit. A Code with any bit set outside
	// this mask is outside the 53-bit envelope and fails Validate.
	ValidMask Code = 0x001FFFFFFFFFFFFF
)

// Maximum raw value of each field.
const (
	MaxErrorCode = 0xFFFF
	MaxStatus    = 0x1F
	MaxComponent = 0x7FF
	MaxSoftware  = 0xFF
	MaxReserved  = 0x1FFF
)

var (
	// ErrCodeRange is returned when a value does not fit the 53-bit envelope.
	//
	// Having a dedicated sentinel error makes it easy for callers and tests to
	// detect "this is about the envelope" vs some other failure.
	ErrCodeRange = errors.New("lasterror: code exceeds 53-bit envelope")

	// ErrCodeSyntax is returned when a textual code cannot be parsed as an
	// unsigned integer at all.
	ErrCodeSyntax = errors.New("lasterror: malformed code literal")
)

// Ensure Code implements encoding.TextMarshaler / encoding.TextUnmarshaler
// so it can be embedded into larger config or API structs.
var (
	_ encoding.TextMarshaler   = (*Code)(nil)
	_ encoding.TextUnmarshaler = (*Code)(nil)
)

// None is the zero code, meaning "no error". It is the only success sentinel.
const None Code = 0

// Pack combines the five fields into a packed Code.
//
// IMPORTANT: every argument is masked to its declared width before packing.
// Out-of-range input is silently truncated, never rejected — packing
// reserved=0x3FFF produces the same Code as reserved=0x1FFF. Callers that need
// range checking must perform it themselves before packing.
func Pack(reserved uint16, softwareID uint8, componentID uint16, st status.Status, errorCode uint16) Code {
	return (Code(reserved)&MaxReserved)<<ReservedShift |
		(Code(softwareID)&MaxSoftware)<<SoftwareShift |
		(Code(componentID)&MaxComponent)<<ComponentShift |
		(Code(st)&MaxStatus)<<StatusShift |
		(Code(errorCode)&MaxErrorCode)<<ErrorCodeShift
}

// New packs a Code with the reserved field fixed to zero.
// This is the common construction for application errors.
func New(softwareID uint8, componentID uint16, st status.Status, errorCode uint16) Code {
	return Pack(0, softwareID, componentID, st, errorCode)
}

// New32 packs a Code with both the reserved field and the software ID fixed
// to zero. The result fits in 32 bits, which is convenient for components
// that store codes in narrower columns.
func New32(componentID uint16, st status.Status, errorCode uint16) Code {
	return Pack(0, 0, componentID, st, errorCode)
}

// FromStatus packs a Code carrying only a status category. All identifying
// fields are zero.
func FromStatus(st status.Status) Code {
	return Pack(0, 0, 0, st, 0)
}

// ErrorCode returns the specific 16-bit failure number.
func (c Code) ErrorCode() uint16 {
	return uint16((c & ErrorCodeMask) >> ErrorCodeShift)
}

// Status returns the coarse 5-bit category.
//
// Extraction is defined even for codes outside the 53-bit envelope: it reads
// whatever bits occupy the status position. Envelope checking is a separate,
// opt-in step (Valid / Validate).
func (c Code) Status() status.Status {
	return status.Status((c & StatusMask) >> StatusShift)
}

// ComponentID returns the 11-bit subsystem identifier.
func (c Code) ComponentID() uint16 {
	return uint16((c & ComponentMask) >> ComponentShift)
}

// SoftwareID returns the 8-bit product identifier.
func (c Code) SoftwareID() uint8 {
	return uint8((c & SoftwareMask) >> SoftwareShift)
}

// Reserved returns the 13-bit reserved field. It round-trips as zero unless a
// caller explicitly packed it.
func (c Code) Reserved() uint16 {
	return uint16((c & ReservedMask) >> ReservedShift)
}

// Valid reports whether c stays within the 53-bit envelope.
// Pack output is always valid by construction.
func (c Code) Valid() bool {
	return c&^ValidMask == 0
}

// Validate checks whether the provided Code is within the 53-bit envelope and
// returns ErrCodeRange if it is not.
func Validate(c Code) error {
	if !c.Valid() {
		return ErrCodeRange
	}
	return nil
}

// HTTP resolves the HTTP status for this code.
//
// The zero code is the success sentinel and always resolves to 200, regardless
// of how the individual fields would map. Any other code delegates to the
// status field's fixed mapping (unknown categories degrade to 500).
func (c Code) HTTP() int {
	if c == None {
		return http.StatusOK
	}
	return c.Status().HTTP()
}

// GRPC resolves the gRPC status code for this code, with the same
// zero-is-success rule as HTTP.
func (c Code) GRPC() codes.Code {
	if c == None {
		return codes.OK
	}
	return c.Status().GRPC()
}

// String returns the canonical textual form: a zero-padded 53-bit hex
// literal, e.g. "0x0ABC42ACED8901".
func (c Code) String() string {
	return fmt.Sprintf("0x%014X", uint64(c))
}

// Parse reads a textual code produced by String (or any hex/decimal unsigned
// literal) and validates it against the 53-bit envelope.
func Parse(s string) (Code, error) {
	s = strings.TrimSpace(s)
	var (
		v   uint64
		err error
	)
	if rest, ok := strings.CutPrefix(strings.ToLower(s), "0x"); ok {
		v, err = strconv.ParseUint(rest, 16, 64)
	} else {
		v, err = strconv.ParseUint(s, 10, 64)
	}
	if err != nil {
		return None, ErrCodeSyntax
	}
	c := Code(v)
	if err := Validate(c); err != nil {
		return None, err
	}
	return c, nil
}

// MustParse is the panic-on-error variant of Parse. It is useful for declaring
// package-level code constants in var blocks.
func MustParse(s string) Code {
	c, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return c
}

// MarshalText implements encoding.TextMarshaler.
//
// It refuses to marshal codes outside the 53-bit envelope, so a corrupt value
// cannot silently leak into JSON/YAML payloads.
func (c Code) MarshalText() ([]byte, error) {
	if err := Validate(c); err != nil {
		return nil, err
	}
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Code) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(bytes.TrimSpace(text)))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
