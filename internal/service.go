package internal

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/DrGermanius/OrderRelay/internal/model"
)

type IService interface {
	SubmitOrder(context.Context, model.OrderInput) (int64, error)
	GetOrder(context.Context, int64) (model.OrderDetails, error)
	FetchPendingOrders(context.Context, string) ([]model.OrderOutput, error)
	AcknowledgeFiscal(context.Context, int64, string) error
	RequestRefund(context.Context, model.RefundInput) error
	FetchPendingRefunds(context.Context, string) ([]model.RefundOutput, error)
}

// Options switch between the two historical behaviours of the relay.
type Options struct {
	// ClientIDs makes the submitted id the primary key; otherwise the database assigns one.
	ClientIDs bool
	// RefundMetadata stores amount, reason and date on refund requests.
	RefundMetadata bool
	// LegacyResponses drops id and status from poller responses.
	LegacyResponses bool
	// StrictTransitions refuses acknowledgements and refunds from unexpected statuses.
	StrictTransitions bool
	// RejectMultiItem fails orders with more than one item instead of keeping the first.
	RejectMultiItem bool
}

var (
	fiscalAllowedFrom = []string{model.OrderStatusSent, model.OrderStatusDone}
	refundAllowedFrom = []string{model.OrderStatusNew, model.OrderStatusSent, model.OrderStatusDone}
)

func NewService(repository IRepository, opts Options, metrics *Metrics, logger *zap.SugaredLogger) *Service {
	return &Service{Repository: repository, opts: opts, metrics: metrics, logger: logger}
}

type Service struct {
	Repository IRepository
	opts       Options
	metrics    *Metrics
	logger     *zap.SugaredLogger
}

func (s Service) SubmitOrder(ctx context.Context, in model.OrderInput) (int64, error) {
	if len(in.Items) == 0 {
		return 0, errors.Wrap(ErrInvalidOrder, "item list is empty")
	}
	if strings.TrimSpace(in.Venue) == "" {
		return 0, errors.Wrap(ErrInvalidOrder, "venue is empty")
	}
	if missing := in.MissingFields(); len(missing) > 0 {
		return 0, errors.Wrapf(ErrInvalidOrder, "missing %s", strings.Join(missing, ", "))
	}
	if len(in.Items) > 1 {
		if s.opts.RejectMultiItem {
			return 0, errors.Wrapf(ErrInvalidOrder, "order has %d items, only one is supported", len(in.Items))
		}
		s.logger.Warnw("order has more than one item, keeping the first", "venue", in.Venue, "dropped", len(in.Items)-1)
	}

	item := in.Items[0]
	o := model.Order{
		Name:     *item.Name,
		Price:    item.Price.Decimal,
		Quantity: *item.Quantity,
		IsFood:   *item.IsFood,
		Time:     *in.Time,
		Venue:    in.Venue,
		Total:    in.Total.Decimal,
	}

	if s.opts.ClientIDs {
		if in.ID == nil || *in.ID <= 0 {
			return 0, errors.Wrap(ErrInvalidOrder, "id is required")
		}
		o.ID = *in.ID

		_, err := s.Repository.GetOrderByID(ctx, o.ID)
		if err == nil {
			return 0, ErrOrderAlreadyExists
		}
		if !errors.Is(err, ErrNoRecords) {
			s.metrics.failed("submit")
			return 0, err
		}
	}

	id, err := s.Repository.CreateOrder(ctx, o)
	if errors.Is(err, ErrOrderAlreadyExists) {
		return 0, err
	}
	if err != nil {
		s.metrics.failed("submit")
		return 0, err
	}

	s.metrics.orderSubmitted()
	return id, nil
}

func (s Service) GetOrder(ctx context.Context, id int64) (model.OrderDetails, error) {
	o, err := s.Repository.GetOrderByID(ctx, id)
	if err != nil {
		return model.OrderDetails{}, err
	}
	return model.NewOrderDetails(o), nil
}

func (s Service) FetchPendingOrders(ctx context.Context, venue string) ([]model.OrderOutput, error) {
	orders, err := s.Repository.TakeOrders(ctx, venue, model.OrderStatusNew, model.OrderStatusSent)
	if err != nil {
		s.metrics.failed("fetch_orders")
		return nil, err
	}
	s.metrics.moved(model.OrderStatusSent, len(orders))

	out := make([]model.OrderOutput, 0, len(orders))
	for _, o := range orders {
		out = append(out, model.NewOrderOutput(o, s.opts.LegacyResponses))
	}
	return out, nil
}

func (s Service) AcknowledgeFiscal(ctx context.Context, id int64, fiscalID string) error {
	if strings.TrimSpace(fiscalID) == "" {
		return ErrEmptyFiscalID
	}

	var allowed []string
	if s.opts.StrictTransitions {
		allowed = fiscalAllowedFrom
	}

	n, err := s.Repository.SetFiscalID(ctx, id, fiscalID, allowed)
	if err != nil {
		s.metrics.failed("acknowledge")
		return err
	}
	if n == 0 {
		return s.explainNoop(ctx, id)
	}

	s.metrics.moved(model.OrderStatusDone, int(n))
	return nil
}

func (s Service) RequestRefund(ctx context.Context, in model.RefundInput) error {
	if in.ID <= 0 {
		return errors.Wrap(ErrInvalidOrder, "id is required")
	}

	var refund *model.Refund
	if s.opts.RefundMetadata {
		refund = &model.Refund{Amount: in.RefundAmount(), Reason: in.Reason, Date: in.Date}
	}

	var allowed []string
	if s.opts.StrictTransitions {
		allowed = refundAllowedFrom
	}

	n, err := s.Repository.RequestRefund(ctx, in.ID, refund, allowed)
	if err != nil {
		s.metrics.failed("refund")
		return err
	}
	if n == 0 {
		return s.explainNoop(ctx, in.ID)
	}

	s.metrics.moved(model.OrderStatusPendingRefundPrint, int(n))
	return nil
}

func (s Service) FetchPendingRefunds(ctx context.Context, venue string) ([]model.RefundOutput, error) {
	orders, err := s.Repository.TakeOrders(ctx, venue, model.OrderStatusPendingRefundPrint, model.OrderStatusRefundSent)
	if err != nil {
		s.metrics.failed("fetch_refunds")
		return nil, err
	}
	s.metrics.moved(model.OrderStatusRefundSent, len(orders))

	out := make([]model.RefundOutput, 0, len(orders))
	for _, o := range orders {
		out = append(out, model.NewRefundOutput(o, s.opts.LegacyResponses))
	}
	return out, nil
}

// explainNoop tells a missing order apart from one whose status blocked the update.
func (s Service) explainNoop(ctx context.Context, id int64) error {
	o, err := s.Repository.GetOrderByID(ctx, id)
	if err != nil {
		return err
	}
	return errors.Wrapf(ErrInvalidTransition, "order %d is %q", id, o.Status)
}
