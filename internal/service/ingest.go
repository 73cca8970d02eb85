package service

import (
	"context"
	"fmt"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/nurbek2810/stockchat-api/internal/config"
	"github.com/nurbek2810/stockchat-api/internal/domain"
	"github.com/nurbek2810/stockchat-api/internal/parse"
)

type LedgerRepository interface {
	MarkMessageProcessed(ctx context.Context, sourceMessageID string, at time.Time) (bool, error)
	PromptNeededToday(ctx context.Context, network, day, kind string) (bool, error)
	EnsureNetwork(ctx context.Context, network, city, address string) error
	IsNetworkInitialized(ctx context.Context, network string) (bool, error)
	RecordSale(ctx context.Context, sale domain.SaleEvent) error
	RecordShipment(ctx context.Context, shipment domain.ShipmentEvent) error
	ApplyStockDelta(ctx context.Context, network string, productID uint, memoryGB, delta int) (int, error)
	ReplaceStockSnapshot(ctx context.Context, network, day string, rows []domain.SnapshotRow) error
	TouchLastSale(ctx context.Context, person, network string, at time.Time) error
}

type ProductResolver interface {
	Resolve(ctx context.Context, network, fragment string) (domain.Candidate, bool, error)
}

type Notifier interface {
	Notify(ctx context.Context, chatID int64, text string)
}

type MatcherSettings interface {
	Matcher() config.MatcherConfig
}

// IngestService runs the message-to-ledger pipeline: idempotency guard,
// classification, per-line extraction, product resolution, ledger application
// and the prompt throttle.
type IngestService struct {
	repo     LedgerRepository
	resolver ProductResolver
	notifier Notifier
	conf     MatcherSettings
	loc      *time.Location
	now      func() time.Time

	// All mutations for one network are serialized behind its lock; different
	// networks proceed in parallel.
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewIngestService(repo LedgerRepository, resolver ProductResolver, notifier Notifier, conf MatcherSettings, loc *time.Location) *IngestService {
	return &IngestService{
		repo:     repo,
		resolver: resolver,
		notifier: notifier,
		conf:     conf,
		loc:      loc,
		now:      time.Now,
		locks:    make(map[string]*sync.Mutex),
	}
}

func (s *IngestService) networkLock(network string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.locks[network]
	if !ok {
		l = &sync.Mutex{}
		s.locks[network] = l
	}

	return l
}

func (s *IngestService) nowLocal() time.Time {
	return s.now().In(s.loc)
}

func (s *IngestService) today() string {
	return s.nowLocal().Format("2006-01-02")
}

// ProcessMessage applies one inbound message to the ledger. Redelivered
// messages are dropped before any other stage runs; unparseable or unresolved
// lines are skipped silently. Storage failures abort the message and
// propagate.
func (s *IngestService) ProcessMessage(ctx context.Context, msg domain.InboundMessage) (domain.IngestResult, error) {
	seen, err := s.repo.MarkMessageProcessed(ctx, msg.SourceMessageID, s.nowLocal())
	if err != nil {
		return domain.IngestResult{}, fmt.Errorf("s.repo.MarkMessageProcessed -> %w", err)
	}
	if seen {
		return domain.IngestResult{Kind: domain.KindIgnore, Duplicate: true}, nil
	}

	kind := parse.Classify(msg.Text)
	res := domain.IngestResult{Kind: kind}
	if kind == domain.KindIgnore {
		return res, nil
	}

	if err = s.repo.EnsureNetwork(ctx, msg.Network, "", ""); err != nil {
		return domain.IngestResult{}, fmt.Errorf("s.repo.EnsureNetwork -> %w", err)
	}

	lock := s.networkLock(msg.Network)
	lock.Lock()
	defer lock.Unlock()

	switch kind {
	case domain.KindStockSnapshot:
		err = s.handleSnapshot(ctx, msg, &res)
	case domain.KindStockIncrement:
		err = s.handleIncrement(ctx, msg, &res)
	case domain.KindSale:
		err = s.handleSale(ctx, msg, &res)
	}
	if err != nil {
		return domain.IngestResult{}, err
	}

	return res, nil
}

func (s *IngestService) handleSale(ctx context.Context, msg domain.InboundMessage, res *domain.IngestResult) error {
	initialized, err := s.repo.IsNetworkInitialized(ctx, msg.Network)
	if err != nil {
		return fmt.Errorf("s.repo.IsNetworkInitialized -> %w", err)
	}

	now := s.nowLocal()
	day := s.today()
	minLen := s.conf.Matcher().MinFragmentLen

	for _, line := range parse.SplitLines(msg.Text) {
		item, ok := parse.ParseSaleLine(line, minLen)
		if !ok {
			continue
		}

		candidate, ok, err := s.resolver.Resolve(ctx, msg.Network, item.Fragment)
		if err != nil {
			return fmt.Errorf("s.resolver.Resolve -> %w", err)
		}
		if !ok {
			// Unrecognized model: drop the line, keep the rest of the message.
			continue
		}

		err = s.repo.RecordSale(ctx, domain.SaleEvent{
			OccurredAt:      now,
			Day:             day,
			Person:          msg.Person,
			Network:         msg.Network,
			ProductID:       candidate.ProductID,
			MemoryGB:        item.MemoryGB,
			Qty:             item.Qty,
			SourceMessageID: msg.SourceMessageID,
		})
		if err != nil {
			return fmt.Errorf("s.repo.RecordSale -> %w", err)
		}
		res.SalesRecorded++

		newQty, err := s.repo.ApplyStockDelta(ctx, msg.Network, candidate.ProductID, item.MemoryGB, -item.Qty)
		if err != nil {
			return fmt.Errorf("s.repo.ApplyStockDelta -> %w", err)
		}

		// A shortfall is only surfaced once the network has submitted real
		// ground truth; before that, absence of data is not evidence.
		if newQty < 0 && initialized {
			need, err := s.repo.PromptNeededToday(ctx, msg.Network, day, domain.PromptNegativeStock)
			if err != nil {
				return fmt.Errorf("s.repo.PromptNeededToday -> %w", err)
			}
			if need {
				s.notifier.Notify(ctx, msg.ChatID, "Остаток ушёл в минус, обновите сток.")
				res.Prompted = true
			}
		}
	}

	if res.SalesRecorded > 0 {
		if err = s.repo.TouchLastSale(ctx, msg.Person, msg.Network, now); err != nil {
			return fmt.Errorf("s.repo.TouchLastSale -> %w", err)
		}
		s.notifier.Notify(ctx, msg.ChatID, "Записал, спасибо.")
	}

	return nil
}

func (s *IngestService) handleIncrement(ctx context.Context, msg domain.InboundMessage, res *domain.IngestResult) error {
	now := s.nowLocal()
	day := s.today()
	minLen := s.conf.Matcher().MinFragmentLen

	for _, line := range parse.SplitLines(msg.Text) {
		if parse.Classify(line) != domain.KindStockIncrement {
			continue
		}

		qty, ok := parse.Quantity(line)
		if !ok {
			continue
		}
		mem, _ := parse.Memory(line)

		fragment := parse.ModelFragment(line)
		if utf8.RuneCountInString(fragment) < minLen {
			continue
		}

		candidate, ok, err := s.resolver.Resolve(ctx, msg.Network, fragment)
		if err != nil {
			return fmt.Errorf("s.resolver.Resolve -> %w", err)
		}
		if !ok {
			continue
		}

		err = s.repo.RecordShipment(ctx, domain.ShipmentEvent{
			OccurredAt: now,
			Day:        day,
			Network:    msg.Network,
			ProductID:  candidate.ProductID,
			MemoryGB:   mem,
			Qty:        qty,
		})
		if err != nil {
			return fmt.Errorf("s.repo.RecordShipment -> %w", err)
		}

		if _, err = s.repo.ApplyStockDelta(ctx, msg.Network, candidate.ProductID, mem, qty); err != nil {
			return fmt.Errorf("s.repo.ApplyStockDelta -> %w", err)
		}
		res.ShipmentsRecorded++
	}

	// Increments never prompt; reconciliation waits for an explicit snapshot.
	return nil
}

func (s *IngestService) handleSnapshot(ctx context.Context, msg domain.InboundMessage, res *domain.IngestResult) error {
	minLen := s.conf.Matcher().MinFragmentLen

	var rows []domain.SnapshotRow
	for _, line := range parse.SnapshotLines(msg.Text) {
		qty, ok := parse.Quantity(line)
		if !ok {
			continue
		}
		mem, _ := parse.Memory(line)

		fragment := parse.ModelFragment(line)
		if utf8.RuneCountInString(fragment) < minLen {
			continue
		}

		candidate, ok, err := s.resolver.Resolve(ctx, msg.Network, fragment)
		if err != nil {
			return fmt.Errorf("s.resolver.Resolve -> %w", err)
		}
		if !ok {
			continue
		}

		rows = append(rows, domain.SnapshotRow{
			ProductID: candidate.ProductID,
			MemoryGB:  mem,
			Qty:       qty,
		})
	}

	if err := s.repo.ReplaceStockSnapshot(ctx, msg.Network, s.today(), rows); err != nil {
		return fmt.Errorf("s.repo.ReplaceStockSnapshot -> %w", err)
	}
	res.SnapshotRows = len(rows)

	s.notifier.Notify(ctx, msg.ChatID, "Обновил сток, спасибо.")

	return nil
}
