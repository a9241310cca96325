package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/bekzod-t/trade_ledger_app/internal/apperrors"
	"github.com/bekzod-t/trade_ledger_app/internal/core/domain"
	portsrepo "github.com/bekzod-t/trade_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/bekzod-t/trade_ledger_app/internal/core/ports/services"
)

type clientService struct {
	clientRepo portsrepo.ClientRepositoryFacade
}

// NewClientService creates the client reference data service.
func NewClientService(clientRepo portsrepo.ClientRepositoryFacade) portssvc.ClientSvcFacade {
	return &clientService{clientRepo: clientRepo}
}

func (s *clientService) GetClientByID(ctx context.Context, clientID string) (*domain.Client, error) {
	client, err := s.clientRepo.FindClientByID(ctx, clientID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: ID %s", apperrors.ErrClientNotFound, clientID)
		}
		return nil, fmt.Errorf("failed to fetch client %s: %w", clientID, err)
	}
	return client, nil
}
