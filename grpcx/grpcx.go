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

// Package grpcx bridges packed last-error codes and gRPC status errors.
//
// The interceptor provisions one lasterror store per RPC; handlers record
// failures through it and the interceptor converts a nonzero code into a
// gRPC status error carrying an ErrorInfo detail with the full packed code.
package grpcx

import (
	"context"
	"strconv"

	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc"
	gstatus "google.golang.org/grpc/status"

	"dirpx.dev/lasterror"
	"dirpx.dev/lasterror/code"
)

// MetaFn extracts extra metadata for the ErrorInfo detail from the RPC
// context and the recorded code. It may return nil when nothing is
// available.
type MetaFn func(ctx context.Context, ec code.Code) map[string]string

// Option configures the interceptor.
type Option func(*config)

type config struct {
	domain string
	metaFn MetaFn
}

// WithDomain sets the ErrorInfo domain field (the name of the service
// producing the errors).
func WithDomain(domain string) Option {
	return func(c *config) { c.domain = domain }
}

// WithMetaFn installs a metadata extractor whose output is merged into the
// ErrorInfo metadata (packed-code fields win on key conflicts).
func WithMetaFn(fn MetaFn) Option {
	return func(c *config) { c.metaFn = fn }
}

// UnaryServerInterceptor returns a grpc.UnaryServerInterceptor that gives
// every RPC its own lasterror store.
//
// Handlers (and anything below them) reach the store with
// lasterror.FromContext. After the handler returns:
//
//   - a handler error is passed through untouched — the handler already chose
//     its own representation;
//   - otherwise, a nonzero recorded code is converted into a gRPC status
//     error via StatusError;
//   - the store is closed either way.
func UnaryServerInterceptor(opts ...Option) grpc.UnaryServerInterceptor {
	var cfg config
	for _, opt := range opts {
		opt(&cfg)
	}

	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		ctx, lec := lasterror.NewContext(ctx)
		defer lec.Close()

		resp, err := handler(ctx, req)
		if err != nil {
			return resp, err
		}

		ec := lec.Code()
		if ec == code.None {
			return resp, nil
		}

		var meta map[string]string
		if cfg.metaFn != nil {
			meta = cfg.metaFn(ctx, ec)
		}
		return nil, statusError(ec, lec.Info(), cfg.domain, meta)
	}
}

// StatusError converts a packed code and message into a gRPC status error
// with an ErrorInfo detail carrying the full code. The zero code returns nil,
// by the zero-is-success rule.
func StatusError(ec code.Code, info string) error {
	return statusError(ec, info, "", nil)
}

// CodeFromError recovers a packed code from a gRPC error produced by
// StatusError or the interceptor. The second return is false when the error
// carries no packed-code detail.
func CodeFromError(err error) (code.Code, bool) {
	if err == nil {
		return code.None, false
	}
	st, ok := gstatus.FromError(err)
	if !ok {
		return code.None, false
	}
	for _, d := range st.Details() {
		ei, ok := d.(*errdetails.ErrorInfo)
		if !ok {
			continue
		}
		ec, perr := code.Parse(ei.GetMetadata()["code"])
		if perr != nil {
			continue
		}
		return ec, true
	}
	return code.None, false
}

func statusError(ec code.Code, info, domain string, meta map[string]string) error {
	if ec == code.None {
		return nil
	}

	md := make(map[string]string, len(meta)+4)
	for k, v := range meta {
		md[k] = v
	}
	md["code"] = ec.String()
	md["error_code"] = strconv.FormatUint(uint64(ec.ErrorCode()), 10)
	md["component_id"] = strconv.FormatUint(uint64(ec.ComponentID()), 10)
	md["software_id"] = strconv.FormatUint(uint64(ec.SoftwareID()), 10)

	base := gstatus.New(ec.GRPC(), info)
	detail := &errdetails.ErrorInfo{
		Reason:   ec.Status().String(),
		Domain:   domain,
		Metadata: md,
	}

	// Try to attach the descriptor as details. If it fails — return base.
	if with, err := base.WithDetails(detail); err == nil {
		return with.Err()
	}
	return base.Err()
}
