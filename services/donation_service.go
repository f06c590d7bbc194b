package services

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/matchops/cup-console/models"
	"github.com/matchops/cup-console/repositories"
)

type CreateDonationInput struct {
	TournamentID string  `json:"tournament_id"`
	DonorName    string  `json:"donor_name"`
	AmountCents  int64   `json:"amount_cents"`
	Message      *string `json:"message,omitempty"`
}

type DonationBoard struct {
	TotalCents int64             `json:"total_cents"`
	Donations  []models.Donation `json:"donations"`
}

type DonationService interface {
	Create(ctx context.Context, input CreateDonationInput) (*models.Donation, error)
	Board(ctx context.Context, tournamentID string) (*DonationBoard, error)
}

type donationService struct {
	donationRepo repositories.DonationRepository
	logger       *slog.Logger
}

func NewDonationService(donationRepo repositories.DonationRepository, logger *slog.Logger) DonationService {
	return &donationService{donationRepo: donationRepo, logger: logger}
}

func (s *donationService) Create(ctx context.Context, input CreateDonationInput) (*models.Donation, error) {
	if input.AmountCents <= 0 {
		return nil, ErrDonationAmountInvalid
	}
	donor := strings.TrimSpace(input.DonorName)
	if donor == "" {
		donor = "Anonymous"
	}

	donation := &models.Donation{
		ID:           uuid.NewString(),
		TournamentID: input.TournamentID,
		DonorName:    donor,
		AmountCents:  input.AmountCents,
		Message:      input.Message,
	}
	if err := s.donationRepo.Create(ctx, donation); err != nil {
		return nil, err
	}

	s.logger.Info("donation received",
		slog.String("tournament_id", donation.TournamentID),
		slog.Int64("amount_cents", donation.AmountCents))
	return donation, nil
}

func (s *donationService) Board(ctx context.Context, tournamentID string) (*DonationBoard, error) {
	donations, err := s.donationRepo.ListByTournament(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	total, err := s.donationRepo.TotalByTournament(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	if donations == nil {
		donations = []models.Donation{}
	}
	return &DonationBoard{TotalCents: total, Donations: donations}, nil
}
