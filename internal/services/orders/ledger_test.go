package orders

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/rustdonate/internal/catalog"
	"github.com/mcoot/rustdonate/internal/dependencies/mocks"
	"github.com/mcoot/rustdonate/internal/model"
	"github.com/mcoot/rustdonate/internal/notify"
	"github.com/mcoot/rustdonate/internal/testutil"
)

const (
	waitFor = time.Second
	tick    = 5 * time.Millisecond
)

type LedgerSuite struct {
	suite.Suite
	clock     *mocks.MockClock
	notices   *notify.Capture
	recorder  *mocks.MockRecorder
	deliverer Deliverer
	ledger    *Ledger
	ctx       context.Context
	ak47      model.CatalogItem
	m4a1      model.CatalogItem
}

func TestLedgerSuite(t *testing.T) {
	suite.Run(t, new(LedgerSuite))
}

func (s *LedgerSuite) SetupTest() {
	s.clock = mocks.NewMockClock(mocks.DefaultTime)
	s.notices = &notify.Capture{}
	s.recorder = mocks.NewMockRecorder()
	s.deliverer = NewSimulatedDeliverer(testutil.NopLogger())
	s.ledger = s.newLedger()
	s.ctx = context.Background()

	items := catalog.Default()
	var err error
	s.ak47, err = items.Get(1)
	s.Require().NoError(err)
	s.m4a1, err = items.Get(2)
	s.Require().NoError(err)
}

func (s *LedgerSuite) TearDownTest() {
	s.Require().NoError(s.ledger.Close())
}

func (s *LedgerSuite) newLedger() *Ledger {
	return NewLedger(DefaultLedgerConfig(), s.deliverer, s.notices, s.clock, testutil.NopLogger(), s.recorder)
}

func (s *LedgerSuite) status(id model.OrderID) model.OrderStatus {
	order, err := s.ledger.Get(id)
	s.Require().NoError(err)
	return order.Status
}

func (s *LedgerSuite) awaitStatus(id model.OrderID, want model.OrderStatus) {
	s.Eventually(func() bool {
		order, err := s.ledger.Get(id)
		return err == nil && order.Status == want
	}, waitFor, tick)
}

// Validation

func (s *LedgerSuite) TestSubmitWithoutItemIsRejected() {
	for _, target := range []string{"anything", "", "   "} {
		_, err := s.ledger.Submit(s.ctx, nil, target)
		s.ErrorIs(err, model.ErrNoItemSelected)
		s.True(model.IsValidationError(err))
	}
	s.Equal(0, s.ledger.Len())
	s.Equal(3, s.notices.Count(TitleValidationError))
	s.Equal(3, s.recorder.RejectedCount(RejectNoItemSelected))
	s.Equal(0, s.ledger.scheduler.Pending())
}

func (s *LedgerSuite) TestSubmitWithBlankTargetIsRejected() {
	for _, target := range []string{"", "   ", "\t\n"} {
		_, err := s.ledger.Submit(s.ctx, &s.ak47, target)
		s.ErrorIs(err, model.ErrMissingDeliveryTarget)
	}
	s.Equal(0, s.ledger.Len())
	s.Equal(3, s.recorder.RejectedCount(RejectMissingDeliveryTarget))

	notices := s.notices.Notices()
	s.Require().Len(notices, 3)
	s.Equal("Enter your Steam ID", notices[0].Description)
	s.Equal(model.NoticeDestructive, notices[0].Variant)
}

// Submission and fulfillment

func (s *LedgerSuite) TestSubmitRecordsPendingOrder() {
	id, err := s.ledger.Submit(s.ctx, &s.ak47, "  STEAM_0:1:1  ")
	s.Require().NoError(err)

	orders := s.ledger.List(0)
	s.Require().Len(orders, 1)
	s.Equal(id, orders[0].ID)
	s.Equal(model.OrderPending, orders[0].Status)
	s.Equal("STEAM_0:1:1", orders[0].DeliveryTarget)
	s.Equal(s.ak47, orders[0].Item)
	s.Equal(mocks.DefaultTime, orders[0].CreatedAt)
	s.True(orders[0].ResolvedAt.IsZero())
	s.Equal(1, s.recorder.Submitted)
}

func (s *LedgerSuite) TestOrderIsDeliveredAfterDelay() {
	id, err := s.ledger.Submit(s.ctx, &s.ak47, "STEAM_0:1:1")
	s.Require().NoError(err)

	s.clock.Advance(DefaultDelay - time.Millisecond)
	s.Never(func() bool { return s.status(id) != model.OrderPending }, 50*time.Millisecond, tick)

	s.clock.Advance(time.Millisecond)
	s.awaitStatus(id, model.OrderDelivered)

	order, err := s.ledger.Get(id)
	s.Require().NoError(err)
	s.Equal(mocks.DefaultTime.Add(DefaultDelay), order.ResolvedAt)
	s.Empty(order.FailureReason)
	s.Eventually(func() bool { return s.recorder.ResolvedCount(string(model.OrderDelivered)) == 1 }, waitFor, tick)
}

func (s *LedgerSuite) TestFulfillmentOnlyTouchesItsOrder() {
	first, err := s.ledger.Submit(s.ctx, &s.m4a1, "STEAM_0:0:7")
	s.Require().NoError(err)
	s.awaitPendingTimers(1)
	s.clock.Advance(DefaultDelay)
	s.awaitStatus(first, model.OrderDelivered)

	// Second submission a second later, not yet due
	s.clock.Advance(time.Second)
	second, err := s.ledger.Submit(s.ctx, &s.ak47, "STEAM_0:1:1")
	s.Require().NoError(err)
	s.Equal(model.OrderPending, s.status(second))

	ok, err := s.ledger.Resolve(first, model.OrderFailed, "late")
	s.Require().NoError(err)
	s.False(ok)

	s.Equal(model.OrderDelivered, s.status(first))
	s.Equal(model.OrderPending, s.status(second))
}

func (s *LedgerSuite) awaitPendingTimers(n int) {
	s.Eventually(func() bool { return s.ledger.scheduler.Pending() == n }, waitFor, tick)
}

func (s *LedgerSuite) TestListIsMostRecentFirstAndCapped() {
	var ids []model.OrderID
	for i := range 7 {
		id, err := s.ledger.Submit(s.ctx, &s.ak47, "STEAM_0:1:1")
		s.Require().NoError(err, "submission %d", i)
		ids = append(ids, id)
	}

	all := s.ledger.List(0)
	s.Require().Len(all, 7)
	for i, order := range all {
		s.Equal(ids[len(ids)-1-i], order.ID)
	}

	recent := s.ledger.List(5)
	s.Require().Len(recent, 5)
	s.Equal(ids[6], recent[0].ID)
	s.Equal(ids[2], recent[4].ID)

	s.Len(s.ledger.List(100), 7)
	s.Len(s.ledger.List(-1), 7)
}

func (s *LedgerSuite) TestOrderIDsStrictlyIncrease() {
	first, err := s.ledger.Submit(s.ctx, &s.ak47, "a")
	s.Require().NoError(err)
	second, err := s.ledger.Submit(s.ctx, &s.ak47, "b")
	s.Require().NoError(err)

	s.Equal(model.OrderID(mocks.DefaultTime.UnixMilli()), first)
	s.Equal(first+1, second)

	s.clock.Advance(time.Minute)
	third, err := s.ledger.Submit(s.ctx, &s.ak47, "c")
	s.Require().NoError(err)
	s.Equal(model.OrderID(mocks.DefaultTime.Add(time.Minute).UnixMilli()), third)
}

func (s *LedgerSuite) TestListReturnsSnapshots() {
	id, err := s.ledger.Submit(s.ctx, &s.ak47, "STEAM_0:1:1")
	s.Require().NoError(err)

	orders := s.ledger.List(0)
	orders[0].Status = model.OrderFailed
	orders[0].Item.Name = "mutated"

	order, err := s.ledger.Get(id)
	s.Require().NoError(err)
	s.Equal(model.OrderPending, order.Status)
	s.Equal("AK-47", order.Item.Name)
}

func (s *LedgerSuite) TestSubmissionCopiesItem() {
	item := s.ak47
	id, err := s.ledger.Submit(s.ctx, &item, "STEAM_0:1:1")
	s.Require().NoError(err)

	item.Price = 1
	order, err := s.ledger.Get(id)
	s.Require().NoError(err)
	s.Equal(250, order.Item.Price)
}

// Resolve

func (s *LedgerSuite) TestResolveIsIdempotent() {
	id, err := s.ledger.Submit(s.ctx, &s.ak47, "STEAM_0:1:1")
	s.Require().NoError(err)

	ok, err := s.ledger.Resolve(id, model.OrderDelivered, "")
	s.Require().NoError(err)
	s.True(ok)

	ok, err = s.ledger.Resolve(id, model.OrderDelivered, "")
	s.Require().NoError(err)
	s.False(ok)

	s.Equal(model.OrderDelivered, s.status(id))
	s.Equal(1, s.notices.Count(TitleItemDelivered))
}

func (s *LedgerSuite) TestResolveCancelsPendingTimer() {
	id, err := s.ledger.Submit(s.ctx, &s.ak47, "STEAM_0:1:1")
	s.Require().NoError(err)
	s.Equal(1, s.ledger.scheduler.Pending())

	ok, err := s.ledger.Resolve(id, model.OrderFailed, "out of stock")
	s.Require().NoError(err)
	s.True(ok)
	s.Equal(0, s.ledger.scheduler.Pending())

	s.clock.Advance(DefaultDelay)
	s.Never(func() bool { return s.status(id) != model.OrderFailed }, 50*time.Millisecond, tick)
	s.Equal(0, s.notices.Count(TitleItemDelivered))
}

func (s *LedgerSuite) TestResolveRejectsNonTerminalStatus() {
	id, err := s.ledger.Submit(s.ctx, &s.ak47, "STEAM_0:1:1")
	s.Require().NoError(err)

	_, err = s.ledger.Resolve(id, model.OrderPending, "")
	s.ErrorIs(err, model.ErrInvalidTransition)
}

func (s *LedgerSuite) TestResolveUnknownOrder() {
	_, err := s.ledger.Resolve(12345, model.OrderDelivered, "")
	s.ErrorIs(err, model.ErrOrderNotFound)

	_, err = s.ledger.Get(12345)
	s.ErrorIs(err, model.ErrOrderNotFound)
}

func (s *LedgerSuite) TestDuplicateFulfillmentIsNoOp() {
	id, err := s.ledger.Submit(s.ctx, &s.ak47, "STEAM_0:1:1")
	s.Require().NoError(err)
	s.clock.Advance(DefaultDelay)
	s.awaitStatus(id, model.OrderDelivered)

	// A duplicate timer fire runs the same step again
	s.ledger.fulfill(id)
	s.Equal(model.OrderDelivered, s.status(id))
	s.Eventually(func() bool { return s.notices.Count(TitleItemDelivered) == 1 }, waitFor, tick)
	s.Equal(1, s.notices.Count(TitleItemDelivered))
}

// Delivery failures

func (s *LedgerSuite) TestDeliveryErrorMarksOrderFailed() {
	s.deliverer = DelivererFunc(func(ctx context.Context, order model.Order) error {
		return errors.New("player offline")
	})
	s.Require().NoError(s.ledger.Close())
	s.ledger = s.newLedger()

	id, err := s.ledger.Submit(s.ctx, &s.ak47, "STEAM_0:1:1")
	s.Require().NoError(err)
	s.clock.Advance(DefaultDelay)
	s.awaitStatus(id, model.OrderFailed)

	order, err := s.ledger.Get(id)
	s.Require().NoError(err)
	s.Equal("player offline", order.FailureReason)

	s.Eventually(func() bool { return s.notices.Count(TitleDeliveryFailed) == 1 }, waitFor, tick)
	for _, n := range s.notices.Notices() {
		if n.Title == TitleDeliveryFailed {
			s.Equal(model.NoticeDestructive, n.Variant)
			s.Equal(id, n.OrderID)
			s.Equal("AK-47 could not be delivered: player offline", n.Description)
		}
	}
	s.Equal(0, s.notices.Count(TitleItemDelivered))
}

// Summary

func (s *LedgerSuite) TestSummaryCountsDeliveredSpend() {
	delivered, err := s.ledger.Submit(s.ctx, &s.ak47, "a")
	s.Require().NoError(err)
	failed, err := s.ledger.Submit(s.ctx, &s.m4a1, "b")
	s.Require().NoError(err)
	_, err = s.ledger.Submit(s.ctx, &s.m4a1, "c")
	s.Require().NoError(err)

	_, err = s.ledger.Resolve(delivered, model.OrderDelivered, "")
	s.Require().NoError(err)
	_, err = s.ledger.Resolve(failed, model.OrderFailed, "nope")
	s.Require().NoError(err)

	s.Equal(model.OrderSummary{
		Total:      3,
		Pending:    1,
		Delivered:  1,
		Failed:     1,
		TotalSpent: 250,
	}, s.ledger.Summary())
}

// Close

func (s *LedgerSuite) TestCloseCancelsPendingFulfillment() {
	id, err := s.ledger.Submit(s.ctx, &s.ak47, "STEAM_0:1:1")
	s.Require().NoError(err)

	s.Require().NoError(s.ledger.Close())
	s.True(s.ledger.IsClosed())

	s.clock.Advance(DefaultDelay)
	s.Never(func() bool { return s.status(id) != model.OrderPending }, 50*time.Millisecond, tick)

	_, err = s.ledger.Submit(s.ctx, &s.ak47, "STEAM_0:1:1")
	s.ErrorIs(err, model.ErrLedgerClosed)

	// Closing again is harmless
	s.Require().NoError(s.ledger.Close())
}

func (s *LedgerSuite) TestCloseInterruptsRunningDelivery() {
	started := make(chan struct{})
	var calls atomic.Int32
	s.deliverer = DelivererFunc(func(ctx context.Context, order model.Order) error {
		calls.Add(1)
		close(started)
		<-ctx.Done()
		return ctx.Err()
	})
	s.Require().NoError(s.ledger.Close())
	s.ledger = s.newLedger()

	id, err := s.ledger.Submit(s.ctx, &s.ak47, "STEAM_0:1:1")
	s.Require().NoError(err)
	s.clock.Advance(DefaultDelay)

	select {
	case <-started:
	case <-time.After(waitFor):
		s.FailNow("delivery did not start")
	}

	s.Require().NoError(s.ledger.Close())
	s.Equal(model.OrderPending, s.status(id))
	s.Equal(int32(1), calls.Load())
	s.Equal(0, s.notices.Count(TitleDeliveryFailed))
}

// The purchase walk-through from the storefront: AK-47 for a legacy Steam ID

func (s *LedgerSuite) TestPurchaseScenario() {
	id, err := s.ledger.Submit(s.ctx, &s.ak47, "STEAM_0:1:123456789")
	s.Require().NoError(err)

	s.Equal(1, s.notices.Count(TitleProcessingPayment))
	s.Equal(0, s.notices.Count(TitleItemDelivered))
	orders := s.ledger.List(5)
	s.Require().Len(orders, 1)
	s.Equal(id, orders[0].ID)
	s.Equal("AK-47", orders[0].Item.Name)
	s.Equal(250, orders[0].Item.Price)
	s.Equal(model.OrderPending, orders[0].Status)

	s.clock.Advance(DefaultDelay)
	s.awaitStatus(id, model.OrderDelivered)
	s.Eventually(func() bool { return s.notices.Count(TitleItemDelivered) == 1 }, waitFor, tick)

	// Nothing else fires later
	s.clock.Advance(time.Hour)
	s.Never(func() bool { return s.notices.Count(TitleItemDelivered) != 1 }, 50*time.Millisecond, tick)

	notices := s.notices.Notices()
	s.Require().Len(notices, 2)
	s.Equal("AK-47 was delivered to the server", notices[1].Description)
	s.Equal(id, notices[1].OrderID)
}
