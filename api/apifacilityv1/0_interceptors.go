package apifacilityv1

import (
	"context"
	"errors"

	"github.com/fulldump/lockerdesk/service"
)

const ContextServicerKey = "5c1d7a2e-8f3b-11ef-b8a4-3f1c6f0b9d21"

var ErrorMissingServicer = errors.New("servicer not injected in context")

func SetServicer(ctx context.Context, s service.Servicer) context.Context {
	return context.WithValue(ctx, ContextServicerKey, s)
}

func GetServicer(ctx context.Context) (service.Servicer, error) {
	s, ok := ctx.Value(ContextServicerKey).(service.Servicer)
	if !ok {
		return nil, ErrorMissingServicer
	}
	return s, nil
}
