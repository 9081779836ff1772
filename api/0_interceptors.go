package api

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/fulldump/box"

	"github.com/fulldump/lockerdesk/database"
)

var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrUnavailable  = errors.New("temporary unavailable")
)

func RecoverFromPanic(next box.H) box.H {
	return func(ctx context.Context) {
		defer func() {
			if err := recover(); err != nil {
				debug.PrintStack()
				box.SetError(ctx, fmt.Errorf("panic: %v", err))
			}
		}()
		next(ctx)
	}
}

func AccessLog(l *log.Logger) box.I {
	return func(next box.H) box.H {
		return func(ctx context.Context) {
			r := box.GetRequest(ctx)
			now := time.Now()
			defer func() {
				l.Println(now.UTC().Format(time.RFC3339Nano), formatRemoteAddr(r), r.Method, r.URL.String(), time.Since(now))
			}()

			next(ctx)
		}
	}
}

func formatRemoteAddr(r *http.Request) string {
	xorigin := strings.TrimSpace(strings.Split(
		r.Header.Get("X-Forwarded-For"), ",")[0])
	if xorigin != "" {
		return xorigin
	}

	i := strings.LastIndex(r.RemoteAddr, ":")
	if i < 0 {
		return r.RemoteAddr
	}
	return r.RemoteAddr[0:i]
}

func InterceptorUnavailable(db *database.Database) box.I {
	return func(next box.H) box.H {
		return func(ctx context.Context) {

			status := db.GetStatus()
			if status == database.StatusOpening {
				box.SetError(ctx, fmt.Errorf("%w: opening", ErrUnavailable))
				return
			}
			if status == database.StatusClosing {
				box.SetError(ctx, fmt.Errorf("%w: closing", ErrUnavailable))
				return
			}
			next(ctx)
		}
	}
}

// Authenticate does nothing when both apiKey and apiSecret are empty.
func Authenticate(apiKey, apiSecret string) box.I {
	return func(next box.H) box.H {
		return func(ctx context.Context) {

			if apiKey == "" && apiSecret == "" {
				next(ctx)
				return
			}

			r := box.GetRequest(ctx)
			key := r.Header.Get("X-Api-Key")
			secret := r.Header.Get("X-Api-Secret")

			if subtle.ConstantTimeCompare([]byte(key), []byte(apiKey)) != 1 ||
				subtle.ConstantTimeCompare([]byte(secret), []byte(apiSecret)) != 1 {
				box.SetError(ctx, ErrUnauthorized)
				return
			}

			next(ctx)
		}
	}
}
