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

// Package httpx writes packed last-error codes as HTTP error responses.
//
// The response body is a google.rpc.Status JSON document carrying the message
// and an ErrorInfo detail with the packed code and its decomposed fields, so
// clients and log pipelines can recover the full 53-bit code from the wire.
package httpx

import (
	"net/http"
	"strconv"

	"google.golang.org/genproto/googleapis/rpc/errdetails"
	spb "google.golang.org/genproto/googleapis/rpc/status"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/anypb"

	"dirpx.dev/lasterror"
	"dirpx.dev/lasterror/code"
)

// Writer turns a packed error code into an HTTP response. The zero value is
// ready to use.
type Writer struct {
	// Domain names the error-producing service in the ErrorInfo detail
	// (e.g. "payments.example.com"). Optional.
	Domain string
}

// Write resolves the HTTP status for ec and writes a google.rpc.Status JSON
// body with the message and the packed-code detail.
//
// The zero code is the success sentinel: Write does nothing for it, so
// callers may invoke Write unconditionally after checking their store.
//
// No redaction is performed: the message is exposed as-is. Handlers that set
// messages containing internal details should scrub them before they reach
// this boundary.
func (w Writer) Write(rw http.ResponseWriter, ec code.Code, info string) {
	if ec == code.None {
		return
	}

	pb := &spb.Status{
		Code:    int32(ec.GRPC()),
		Message: info,
	}
	// IMPORTANT: protobuf JSON must go through protojson, so that the Any
	// detail is serialized with its @type field and json_name conventions.
	if det, err := anypb.New(errorInfo(ec, w.Domain)); err == nil {
		pb.Details = append(pb.Details, det)
	}

	rw.Header().Set("Content-Type", "application/json")
	rw.WriteHeader(ec.HTTP())

	b, _ := (protojson.MarshalOptions{
		EmitUnpopulated: false,
		UseProtoNames:   false, // use json_name
	}).Marshal(pb)
	_, _ = rw.Write(b)
}

// Middleware provisions a fresh lasterror store for each request, makes it
// available via lasterror.FromContext, and closes it when the handler
// returns.
//
// If the handler finishes without writing a response but left a nonzero code
// in the store, the error is written for it. A handler that writes its own
// response keeps full control; the store is still closed.
func (w Writer) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		ctx, lec := lasterror.NewContext(r.Context())
		defer lec.Close()

		sw := &statusWriter{ResponseWriter: rw}
		next.ServeHTTP(sw, r.WithContext(ctx))

		if sw.wrote {
			return
		}
		w.Write(rw, lec.Code(), lec.Info())
	})
}

// Middleware is the package-level convenience using a zero Writer.
func Middleware(next http.Handler) http.Handler {
	return Writer{}.Middleware(next)
}

// errorInfo builds the ErrorInfo detail exposing the packed code and its
// decomposed fields.
func errorInfo(ec code.Code, domain string) *errdetails.ErrorInfo {
	return &errdetails.ErrorInfo{
		Reason: ec.Status().String(),
		Domain: domain,
		Metadata: map[string]string{
			"code":         ec.String(),
			"error_code":   strconv.FormatUint(uint64(ec.ErrorCode()), 10),
			"component_id": strconv.FormatUint(uint64(ec.ComponentID()), 10),
			"software_id":  strconv.FormatUint(uint64(ec.SoftwareID()), 10),
		},
	}
}

// statusWriter records whether the wrapped handler produced any response.
type statusWriter struct {
	http.ResponseWriter
	wrote bool
}

func (s *statusWriter) WriteHeader(statusCode int) {
	s.wrote = true
	s.ResponseWriter.WriteHeader(statusCode)
}

func (s *statusWriter) Write(b []byte) (int, error) {
	s.wrote = true
	return s.ResponseWriter.Write(b)
}
