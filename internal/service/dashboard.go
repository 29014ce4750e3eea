package service

import (
	"context"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/sarmadcodes/fbarea-admin-panel/internal/domain"
	"github.com/sarmadcodes/fbarea-admin-panel/internal/societyapi"
)

// Dashboard fetches the user, complaint and payment stats in parallel. A
// section whose request fails is logged and left zero.
func Dashboard(ctx context.Context, client *societyapi.Client, log logrus.FieldLogger) domain.DashboardStats {
	var stats domain.DashboardStats

	var g errgroup.Group
	g.Go(func() error {
		users, err := client.UserStats(ctx)
		if err != nil {
			log.WithError(err).Warn("dashboard: user stats failed")
			return nil
		}
		stats.Users = *users
		return nil
	})
	g.Go(func() error {
		complaints, err := client.ComplaintStats(ctx)
		if err != nil {
			log.WithError(err).Warn("dashboard: complaint stats failed")
			return nil
		}
		stats.Complaints = *complaints
		return nil
	})
	g.Go(func() error {
		payments, err := client.PaymentStats(ctx)
		if err != nil {
			log.WithError(err).Warn("dashboard: payment stats failed")
			return nil
		}
		stats.Payments = *payments
		return nil
	})
	_ = g.Wait()

	return stats
}
