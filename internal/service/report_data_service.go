package service

import (
	"context"
	"math"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/noah-isme/rajbhasha-api/internal/models"
	appErrors "github.com/noah-isme/rajbhasha-api/pkg/errors"
	"github.com/noah-isme/rajbhasha-api/pkg/region"
)

type reportStatsRepository interface {
	InwardTotals(ctx context.Context, filter models.ReportFilter) (*models.InwardTotals, error)
	OutwardTotals(ctx context.Context, filter models.ReportFilter) (*models.OutwardTotals, error)
	InwardByRegion(ctx context.Context, filter models.ReportFilter) ([]models.InwardRegionRow, error)
	OutwardByRegion(ctx context.Context, filter models.ReportFilter) ([]models.OutwardRegionRow, error)
	EmailCounts(ctx context.Context, filter models.ReportFilter) ([]models.EmailRegionRow, error)
	NotingsCounts(ctx context.Context, filter models.ReportFilter) ([]models.NotingsRow, error)
	GroupHead(ctx context.Context, group string) (*models.GroupHead, error)
}

// ReportDataService aggregates register and counter data into a ReportSummary.
type ReportDataService struct {
	repo    reportStatsRepository
	metrics *MetricsService
	logger  *zap.Logger
}

// NewReportDataService constructs the aggregator.
func NewReportDataService(repo reportStatsRepository, metrics *MetricsService, logger *zap.Logger) *ReportDataService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportDataService{repo: repo, metrics: metrics, logger: logger}
}

// NormalizeReportFilter trims the optional fields and checks month and year.
func NormalizeReportFilter(filter models.ReportFilter) (models.ReportFilter, error) {
	filter.Office = strings.TrimSpace(filter.Office)
	filter.Group = strings.TrimSpace(filter.Group)
	if filter.Month < 1 || filter.Month > 12 {
		return filter, appErrors.Validation("month must be between 1 and 12")
	}
	if filter.Year < 1000 || filter.Year > 9999 {
		return filter, appErrors.Validation("year must be a 4-digit number")
	}
	return filter, nil
}

// CalculateReportData runs every aggregate concurrently and assembles the
// summary. Any failing query aborts the whole calculation.
func (s *ReportDataService) CalculateReportData(ctx context.Context, filter models.ReportFilter) (*models.ReportSummary, error) {
	filter, err := NormalizeReportFilter(filter)
	if err != nil {
		return nil, err
	}

	var (
		inTotals  *models.InwardTotals
		outTotals *models.OutwardTotals
		inRows    []models.InwardRegionRow
		outRows   []models.OutwardRegionRow
		emailRows []models.EmailRegionRow
		notings   []models.NotingsRow
		head      *models.GroupHead
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		defer s.observe("inward_totals", time.Now())
		inTotals, err = s.repo.InwardTotals(gctx, filter)
		return err
	})
	g.Go(func() (err error) {
		defer s.observe("outward_totals", time.Now())
		outTotals, err = s.repo.OutwardTotals(gctx, filter)
		return err
	})
	g.Go(func() (err error) {
		defer s.observe("inward_by_region", time.Now())
		inRows, err = s.repo.InwardByRegion(gctx, filter)
		return err
	})
	g.Go(func() (err error) {
		defer s.observe("outward_by_region", time.Now())
		outRows, err = s.repo.OutwardByRegion(gctx, filter)
		return err
	})
	g.Go(func() (err error) {
		defer s.observe("email_counts", time.Now())
		emailRows, err = s.repo.EmailCounts(gctx, filter)
		return err
	})
	g.Go(func() (err error) {
		defer s.observe("notings_counts", time.Now())
		notings, err = s.repo.NotingsCounts(gctx, filter)
		return err
	})
	g.Go(func() (err error) {
		defer s.observe("group_head", time.Now())
		head, err = s.repo.GroupHead(gctx, filter.Group)
		return err
	})

	if err := g.Wait(); err != nil {
		s.logger.Error("failed to calculate report",
			zap.Int("month", filter.Month),
			zap.Int("year", filter.Year),
			zap.String("office", filter.Office),
			zap.String("group", filter.Group),
			zap.Error(err),
		)
		return nil, appErrors.Internal(err, "failed to calculate report")
	}

	return buildSummary(inTotals, outTotals, inRows, outRows, emailRows, notings, head), nil
}

func (s *ReportDataService) observe(query string, start time.Time) {
	s.metrics.ObserveDBQuery(query, time.Since(start))
}

func buildSummary(
	inTotals *models.InwardTotals,
	outTotals *models.OutwardTotals,
	inRows []models.InwardRegionRow,
	outRows []models.OutwardRegionRow,
	emailRows []models.EmailRegionRow,
	notings []models.NotingsRow,
	head *models.GroupHead,
) *models.ReportSummary {
	summary := &models.ReportSummary{}

	if inTotals != nil {
		summary.LettersReceivedHindi = inTotals.Hindi
		summary.NotExpectedTotal = inTotals.NotRequired
		summary.TotalInwards = inTotals.Total
	}
	if outTotals != nil {
		summary.RepliesSentHindi = outTotals.RepliedHindi
		summary.RepliesSentEnglish = outTotals.RepliedEnglish
		summary.TotalOutwards = outTotals.Total
	}

	for _, row := range inRows {
		r := region.Parse(row.Region)
		reply := summary.InwardByRegion.For(r)
		reply.ReceivedEnglish += row.ReceivedEnglish
		reply.NotExpected += row.NotExpected

		issued := summary.Section3ByRegion.For(r)
		issued.Hindi += row.HindiPlusBilingual
		issued.English += row.English
	}
	for _, row := range outRows {
		reply := summary.InwardByRegion.For(region.Parse(row.Region))
		reply.RepliedHindi += row.RepliedHindi
		reply.RepliedEnglish += row.RepliedEnglish
	}
	for _, r := range append(region.Reported(), region.Unknown) {
		fillIssueTotals(summary.Section3ByRegion.For(r))
	}

	for _, row := range emailRows {
		r := region.Parse(row.Region)
		if !r.IsReported() {
			continue
		}
		switch models.EmailEntryType(row.EntryType) {
		case models.EmailReceived:
			counts := summary.EmailReceived.For(r)
			counts.English += row.TotalEnglish
			counts.Hindi += row.TotalHindi
		case models.EmailReplied:
			*summary.EmailReplied.For(r) += row.TotalHindi
		}
	}

	for _, row := range notings {
		switch models.NotingsEntryType(row.EntryType) {
		case models.NotingsNoting:
			summary.NotingsHindi += row.HindiPages
			summary.NotingsEnglish += row.EnglishPages
		case models.NotingsComment:
			summary.NotingsEoffice += row.EofficeComments
		}
	}

	if head != nil {
		summary.GroupName = head.GroupName
		summary.GroupHeadName = head.Name
	}
	return summary
}

// fillIssueTotals derives total and the rounded Hindi/Bilingual percentage.
func fillIssueTotals(stats *models.RegionIssueStats) {
	stats.Total = stats.Hindi + stats.English
	if stats.Total <= 0 {
		stats.Percent = 0
		return
	}
	stats.Percent = int(math.Round(100 * float64(stats.Hindi) / float64(stats.Total)))
}
