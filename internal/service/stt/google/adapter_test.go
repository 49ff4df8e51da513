package google

import (
	"errors"
	"testing"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestTransient(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"deadline exceeded", status.Error(codes.DeadlineExceeded, "timeout"), true},
		{"unavailable", status.Error(codes.Unavailable, "backend down"), true},
		{"resource exhausted", status.Error(codes.ResourceExhausted, "quota"), true},
		{"aborted", status.Error(codes.Aborted, "conflict"), true},
		{"internal", status.Error(codes.Internal, "oops"), true},
		{"invalid argument", status.Error(codes.InvalidArgument, "bad encoding"), false},
		{"unauthenticated", status.Error(codes.Unauthenticated, "no creds"), false},
		{"plain error", errors.New("not a status"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := transient(tt.err); got != tt.want {
				t.Errorf("transient(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}
