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
	"errors"
	"net/http"
	"testing"

	"google.golang.org/grpc/codes"

	"dirpx.dev/lasterror/status"
)

func TestPack_RoundTrip(t *testing.T) {
	tests := []struct {
		name        string
		reserved    uint16
		softwareID  uint8
		componentID uint16
		status      status.Status
		errorCode   uint16
	}{
		{"all zero", 0, 0, 0, status.OK, 0},
		{"error code only", 0, 0, 0, status.OK, 0xFFFF},
		{"status only", 0, 0, 0, status.Unauthenticated, 0},
		{"component max", 0, 0, 0x7FF, status.OK, 0},
		{"software max", 0, 0xFF, 0, status.OK, 0},
		{"reserved max", 0x1FFF, 0, 0, status.OK, 0},
		{"all max", 0x1FFF, 0xFF, 0x7FF, status.Status(0x1F), 0xFFFF},
		{"mixed", 0x0042, 0x17, 0x123, status.Internal, 0xBEEF},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Pack(tt.reserved, tt.softwareID, tt.componentID, tt.status, tt.errorCode)
			if got := c.Reserved(); got != tt.reserved {
				t.Fatalf("Reserved() = %#x, want %#x", got, tt.reserved)
			}
			if got := c.SoftwareID(); got != tt.softwareID {
				t.Fatalf("SoftwareID() = %#x, want %#x", got, tt.softwareID)
			}
			if got := c.ComponentID(); got != tt.componentID {
				t.Fatalf("ComponentID() = %#x, want %#x", got, tt.componentID)
			}
			if got := c.Status(); got != tt.status {
				t.Fatalf("Status() = %#x, want %#x", got, tt.status)
			}
			if got := c.ErrorCode(); got != tt.errorCode {
				t.Fatalf("ErrorCode() = %#x, want %#x", got, tt.errorCode)
			}
		})
	}
}

func TestPack_Truncation(t *testing.T) {
	// Out-of-width input is masked, never rejected: the extra high bits are
	// simply discarded.
	if got, want := Pack(0x3FFF, 0, 0, status.OK, 0), Pack(0x3FFF&0x1FFF, 0, 0, status.OK, 0); got != want {
		t.Fatalf("Pack(reserved=0x3FFF) = %v, want %v", got, want)
	}
	if got, want := Pack(0, 0, 0xFFFF, status.OK, 0), Pack(0, 0, 0x7FF, status.OK, 0); got != want {
		t.Fatalf("Pack(componentID=0xFFFF) = %v, want %v", got, want)
	}
	if got, want := Pack(0, 0, 0, status.Status(0x2D), 0), Pack(0, 0, 0, status.Status(0x0D), 0); got != want {
		t.Fatalf("Pack(status=0x2D) = %v, want %v", got, want)
	}
}

func TestPack_Scenario(t *testing.T) {
	c := Pack(0xABC, 0x42, 0x567, status.Status(0x0D), 0x8901)

	if got := c.Reserved(); got != 0xABC {
		t.Fatalf("Reserved() = %#x, want 0xABC", got)
	}
	if got := c.SoftwareID(); got != 0x42 {
		t.Fatalf("SoftwareID() = %#x, want 0x42", got)
	}
	if got := c.ComponentID(); got != 0x567 {
		t.Fatalf("ComponentID() = %#x, want 0x567", got)
	}
	if got := c.Status(); got != status.Status(0x0D) {
		t.Fatalf("Status() = %#x, want 0x0D", got)
	}
	if got := c.ErrorCode(); got != 0x8901 {
		t.Fatalf("ErrorCode() = %#x, want 0x8901", got)
	}
	if got := c.String(); got != "0x0ABC42ACED8901" {
		t.Fatalf("String() = %q, want %q", got, "0x0ABC42ACED8901")
	}
}

func TestConvenienceConstructors(t *testing.T) {
	if got, want := New(0x42, 0x567, status.Internal, 0x8901), Pack(0, 0x42, 0x567, status.Internal, 0x8901); got != want {
		t.Fatalf("New() = %v, want %v", got, want)
	}
	if got, want := New32(0x567, status.Internal, 0x8901), Pack(0, 0, 0x567, status.Internal, 0x8901); got != want {
		t.Fatalf("New32() = %v, want %v", got, want)
	}
	if c := New32(0x567, status.Internal, 0x8901); uint64(c) > 0xFFFFFFFF {
		t.Fatalf("New32() result does not fit 32 bits: %v", c)
	}
	if got, want := FromStatus(status.NotFound), Pack(0, 0, 0, status.NotFound, 0); got != want {
		t.Fatalf("FromStatus() = %v, want %v", got, want)
	}
}

func TestValid(t *testing.T) {
	// Pack output never exceeds the envelope, regardless of input.
	inputs := []struct {
		reserved    uint16
		softwareID  uint8
		componentID uint16
		status      status.Status
		errorCode   uint16
	}{
		{0xFFFF, 0xFF, 0xFFFF, status.Status(0xFF), 0xFFFF},
		{0, 0, 0, status.OK, 0},
		{0x1FFF, 0xFF, 0x7FF, status.Status(0x1F), 0xFFFF},
	}
	for _, in := range inputs {
		if c := Pack(in.reserved, in.softwareID, in.componentID, in.status, in.errorCode); !c.Valid() {
			t.Fatalf("Pack(%#x, %#x, %#x, %#x, %#x) produced invalid code %v",
				in.reserved, in.softwareID, in.componentID, in.status, in.errorCode, c)
		}
	}

	if Code(0xFFFFFFFFFFFFFFFF).Valid() {
		t.Fatalf("all-ones code must be invalid")
	}
	if !None.Valid() {
		t.Fatalf("zero code must be valid")
	}
	if !ValidMask.Valid() {
		t.Fatalf("ValidMask itself must be valid")
	}
	if (ValidMask + 1).Valid() {
		t.Fatalf("first code above the envelope must be invalid")
	}

	if err := Validate(Code(1) << 53); !errors.Is(err, ErrCodeRange) {
		t.Fatalf("Validate(out of envelope) = %v, want ErrCodeRange", err)
	}
	if err := Validate(None); err != nil {
		t.Fatalf("Validate(None) = %v, want nil", err)
	}
}

func TestHTTP(t *testing.T) {
	// The whole-code zero sentinel wins over any field mapping.
	if got := None.HTTP(); got != http.StatusOK {
		t.Fatalf("None.HTTP() = %d, want 200", got)
	}

	tests := []struct {
		name string
		code Code
		want int
	}{
		{"not found", New32(7, status.NotFound, 0x12), http.StatusNotFound},
		{"internal", New32(7, status.Internal, 0x13), http.StatusInternalServerError},
		{"deadline", FromStatus(status.DeadlineExceeded), http.StatusGatewayTimeout},
		{"out-of-enum status degrades to 500", Pack(0, 0, 0, status.Status(0x1F), 1), http.StatusInternalServerError},
		// A nonzero code whose status field happens to be OK still maps the
		// status field, not the sentinel.
		{"nonzero with OK status", New32(7, status.OK, 0x12), http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.code.HTTP(); got != tt.want {
				t.Fatalf("HTTP() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestGRPC(t *testing.T) {
	if got := None.GRPC(); got != codes.OK {
		t.Fatalf("None.GRPC() = %v, want OK", got)
	}
	if got := New32(7, status.NotFound, 0x12).GRPC(); got != codes.NotFound {
		t.Fatalf("GRPC() = %v, want NotFound", got)
	}
	if got := Pack(0, 0, 0, status.Status(0x1F), 1).GRPC(); got != codes.Unknown {
		t.Fatalf("GRPC() for out-of-enum status = %v, want Unknown", got)
	}
}

func TestParse(t *testing.T) {
	t.Run("round trip through String", func(t *testing.T) {
		orig := Pack(0xABC, 0x42, 0x567, status.Status(0x0D), 0x8901)
		got, err := Parse(orig.String())
		if err != nil {
			t.Fatalf("Parse(%q) unexpected error: %v", orig.String(), err)
		}
		if got != orig {
			t.Fatalf("Parse(String()) = %v, want %v", got, orig)
		}
	})

	t.Run("decimal", func(t *testing.T) {
		got, err := Parse("327680")
		if err != nil {
			t.Fatalf("Parse(decimal) unexpected error: %v", err)
		}
		if got != FromStatus(status.NotFound) {
			t.Fatalf("Parse(decimal) = %v, want %v", got, FromStatus(status.NotFound))
		}
	})

	t.Run("malformed", func(t *testing.T) {
		if _, err := Parse("not a code"); !errors.Is(err, ErrCodeSyntax) {
			t.Fatalf("Parse(garbage) = %v, want ErrCodeSyntax", err)
		}
	})

	t.Run("out of envelope", func(t *testing.T) {
		if _, err := Parse("0xFFFFFFFFFFFFFFFF"); !errors.Is(err, ErrCodeRange) {
			t.Fatalf("Parse(64-bit all ones) = %v, want ErrCodeRange", err)
		}
	})
}

func TestMustParse_PanicsOnInvalid(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Fatalf("MustParse should panic on invalid input")
		}
	}()
	_ = MustParse("??")
}

func TestCode_TextMarshaling(t *testing.T) {
	c := New32(0x123, status.Aborted, 0x42)
	text, err := c.MarshalText()
	if err != nil {
		t.Fatalf("MarshalText() unexpected error: %v", err)
	}

	var back Code
	if err := back.UnmarshalText(text); err != nil {
		t.Fatalf("UnmarshalText(%q) unexpected error: %v", text, err)
	}
	if back != c {
		t.Fatalf("text round trip = %v, want %v", back, c)
	}

	// A code outside the envelope must refuse to marshal.
	invalid := Code(1) << 60
	if _, err := invalid.MarshalText(); !errors.Is(err, ErrCodeRange) {
		t.Fatalf("MarshalText() on invalid code = %v, want ErrCodeRange", err)
	}
}
