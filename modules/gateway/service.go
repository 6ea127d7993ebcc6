package gateway

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/guarzo/nequiapi/common"
)

// GatewayService is the higher-level API: it fetches a valid token for each call
// and hands it to the GatewayClient as the Authorization header.
type GatewayService interface {
	CashIn(ctx context.Context, body interface{}) (json.RawMessage, error)
	CashOut(ctx context.Context, body interface{}) (json.RawMessage, error)
	CashOutConsult(ctx context.Context, body interface{}) (json.RawMessage, error)
	ValidateClient(ctx context.Context, body interface{}) (json.RawMessage, error)
	ReverseTransaction(ctx context.Context, body interface{}) (json.RawMessage, error)
	GetPublicKey(ctx context.Context) (string, error)
}

type gatewayService struct {
	client GatewayClient
	tokens common.TokenSource
}

// NewGatewayService constructs a GatewayService.
func NewGatewayService(client GatewayClient, tokens common.TokenSource) GatewayService {
	return &gatewayService{
		client: client,
		tokens: tokens,
	}
}

func (s *gatewayService) authorization(ctx context.Context) (string, error) {
	auth, err := s.tokens.GetValidToken(ctx, true)
	if err != nil {
		return "", fmt.Errorf("failed to get valid token: %w", err)
	}
	return auth, nil
}

type jsonCall func(ctx context.Context, body interface{}, authorization string) (json.RawMessage, error)

func (s *gatewayService) callJSON(ctx context.Context, call jsonCall, body interface{}) (json.RawMessage, error) {
	auth, err := s.authorization(ctx)
	if err != nil {
		return nil, err
	}
	return call(ctx, body, auth)
}

func (s *gatewayService) CashIn(ctx context.Context, body interface{}) (json.RawMessage, error) {
	return s.callJSON(ctx, s.client.CashIn, body)
}

func (s *gatewayService) CashOut(ctx context.Context, body interface{}) (json.RawMessage, error) {
	return s.callJSON(ctx, s.client.CashOut, body)
}

func (s *gatewayService) CashOutConsult(ctx context.Context, body interface{}) (json.RawMessage, error) {
	return s.callJSON(ctx, s.client.CashOutConsult, body)
}

func (s *gatewayService) ValidateClient(ctx context.Context, body interface{}) (json.RawMessage, error) {
	return s.callJSON(ctx, s.client.ValidateClient, body)
}

func (s *gatewayService) ReverseTransaction(ctx context.Context, body interface{}) (json.RawMessage, error) {
	return s.callJSON(ctx, s.client.ReverseTransaction, body)
}

func (s *gatewayService) GetPublicKey(ctx context.Context) (string, error) {
	auth, err := s.authorization(ctx)
	if err != nil {
		return "", err
	}
	return s.client.GetPublicKey(ctx, auth)
}
