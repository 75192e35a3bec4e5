package test

import (
	"context"
	"errors"

	"github.com/golang/mock/gomock"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/DrGermanius/OrderRelay/internal"
	mock_internal "github.com/DrGermanius/OrderRelay/internal/mock"
	"github.com/DrGermanius/OrderRelay/internal/model"
)

var _ = Describe("Service", func() {
	var (
		ctrl *gomock.Controller
		rep  *mock_internal.MockIRepository
		opts internal.Options
		srv  func() internal.IService
	)
	BeforeEach(func() {
		ctrl = gomock.NewController(GinkgoT())
		rep = mock_internal.NewMockIRepository(ctrl)
		opts = internal.Options{ClientIDs: true, RefundMetadata: true}

		logger, err := zap.NewDevelopment()
		Expect(err).ShouldNot(HaveOccurred())

		srv = func() internal.IService {
			return internal.NewService(rep, opts, internal.NewMetrics(nil), logger.Sugar())
		}
	})
	AfterEach(func() {
		ctrl.Finish()
	})

	coke := newItem("Coke", "2.5", 1, false)
	tea := newItem("Tea", "1", 2, false)

	Context("SubmitOrder", func() {
		It("stores the first item with client id", func() {
			ctx := context.Background()
			id := int64(1)
			in := newOrderInput(&id, "bar1", coke)

			expected := model.Order{
				ID:       1,
				Name:     "Coke",
				Price:    coke.Price.Decimal,
				Quantity: 1,
				Time:     "12:00",
				Venue:    "bar1",
				Total:    in.Total.Decimal,
			}

			rep.EXPECT().GetOrderByID(ctx, id).Return(model.Order{}, internal.ErrNoRecords)
			rep.EXPECT().CreateOrder(ctx, expected).Return(id, nil)

			got, err := srv().SubmitOrder(ctx, in)
			Expect(err).ShouldNot(HaveOccurred())
			Expect(got).Should(Equal(id))
		})
		It("lets the database assign the id", func() {
			ctx := context.Background()
			opts.ClientIDs = false
			id := int64(99)
			in := newOrderInput(&id, "bar1", coke)

			rep.EXPECT().CreateOrder(ctx, gomock.Any()).DoAndReturn(func(_ context.Context, o model.Order) (int64, error) {
				Expect(o.ID).Should(BeZero())
				return 5, nil
			})

			got, err := srv().SubmitOrder(ctx, in)
			Expect(err).ShouldNot(HaveOccurred())
			Expect(got).Should(Equal(int64(5)))
		})
		It("keeps only the first of many items", func() {
			ctx := context.Background()
			id := int64(2)
			in := newOrderInput(&id, "bar1", tea, coke)

			rep.EXPECT().GetOrderByID(ctx, id).Return(model.Order{}, internal.ErrNoRecords)
			rep.EXPECT().CreateOrder(ctx, gomock.Any()).DoAndReturn(func(_ context.Context, o model.Order) (int64, error) {
				Expect(o.Name).Should(Equal("Tea"))
				return o.ID, nil
			})

			_, err := srv().SubmitOrder(ctx, in)
			Expect(err).ShouldNot(HaveOccurred())
		})
		It("rejects many items when configured", func() {
			opts.RejectMultiItem = true
			id := int64(2)

			_, err := srv().SubmitOrder(context.Background(), newOrderInput(&id, "bar1", tea, coke))
			Expect(errors.Is(err, internal.ErrInvalidOrder)).Should(BeTrue())
		})
		It("rejects an empty item list", func() {
			id := int64(1)

			_, err := srv().SubmitOrder(context.Background(), newOrderInput(&id, "bar1"))
			Expect(errors.Is(err, internal.ErrInvalidOrder)).Should(BeTrue())
		})
		It("rejects a missing venue", func() {
			id := int64(1)

			_, err := srv().SubmitOrder(context.Background(), newOrderInput(&id, "", coke))
			Expect(errors.Is(err, internal.ErrInvalidOrder)).Should(BeTrue())
		})
		It("rejects missing item keys", func() {
			id := int64(1)
			partial := coke
			partial.IsFood = nil

			_, err := srv().SubmitOrder(context.Background(), newOrderInput(&id, "bar1", partial))
			Expect(errors.Is(err, internal.ErrInvalidOrder)).Should(BeTrue())
			Expect(err.Error()).Should(ContainSubstring("name[0].isfood"))
		})
		It("rejects missing order keys", func() {
			id := int64(1)
			in := newOrderInput(&id, "bar1", coke)
			in.Time = nil
			in.Total = decimal.NullDecimal{}

			_, err := srv().SubmitOrder(context.Background(), in)
			Expect(errors.Is(err, internal.ErrInvalidOrder)).Should(BeTrue())
			Expect(err.Error()).Should(ContainSubstring("Time, total"))
		})
		It("reports a duplicate caught by the insert", func() {
			ctx := context.Background()
			id := int64(1)

			rep.EXPECT().GetOrderByID(ctx, id).Return(model.Order{}, internal.ErrNoRecords)
			rep.EXPECT().CreateOrder(ctx, gomock.Any()).Return(int64(0), internal.ErrOrderAlreadyExists)

			_, err := srv().SubmitOrder(ctx, newOrderInput(&id, "bar1", coke))
			Expect(err).Should(Equal(internal.ErrOrderAlreadyExists))
		})
		It("requires a client id", func() {
			_, err := srv().SubmitOrder(context.Background(), newOrderInput(nil, "bar1", coke))
			Expect(errors.Is(err, internal.ErrInvalidOrder)).Should(BeTrue())
		})
		It("refuses a duplicate id", func() {
			ctx := context.Background()
			id := int64(1)

			rep.EXPECT().GetOrderByID(ctx, id).Return(model.Order{ID: id}, nil)

			_, err := srv().SubmitOrder(ctx, newOrderInput(&id, "bar1", coke))
			Expect(err).Should(Equal(internal.ErrOrderAlreadyExists))
		})
		It("returns storage errors", func() {
			ctx := context.Background()
			id := int64(1)
			e := errors.New("some error")

			rep.EXPECT().GetOrderByID(ctx, id).Return(model.Order{}, internal.ErrNoRecords)
			rep.EXPECT().CreateOrder(ctx, gomock.Any()).Return(int64(0), e)

			_, err := srv().SubmitOrder(ctx, newOrderInput(&id, "bar1", coke))
			Expect(err).Should(Equal(e))
		})
	})

	Context("FetchPendingOrders", func() {
		orders := []model.Order{{ID: 1, Name: "Coke", Venue: "bar1", Status: model.OrderStatusSent}}

		It("moves new orders to sent", func() {
			ctx := context.Background()

			rep.EXPECT().TakeOrders(ctx, "bar1", model.OrderStatusNew, model.OrderStatusSent).Return(orders, nil)

			out, err := srv().FetchPendingOrders(ctx, "bar1")
			Expect(err).ShouldNot(HaveOccurred())
			Expect(out).Should(HaveLen(1))
			Expect(*out[0].ID).Should(Equal(int64(1)))
			Expect(out[0].Status).Should(Equal(model.OrderStatusSent))
		})
		It("drops id and status in legacy mode", func() {
			ctx := context.Background()
			opts.LegacyResponses = true

			rep.EXPECT().TakeOrders(ctx, "bar1", model.OrderStatusNew, model.OrderStatusSent).Return(orders, nil)

			out, err := srv().FetchPendingOrders(ctx, "bar1")
			Expect(err).ShouldNot(HaveOccurred())
			Expect(out[0].ID).Should(BeNil())
			Expect(out[0].Status).Should(BeEmpty())
		})
		It("returns an empty list", func() {
			ctx := context.Background()

			rep.EXPECT().TakeOrders(ctx, "bar1", model.OrderStatusNew, model.OrderStatusSent).Return(nil, nil)

			out, err := srv().FetchPendingOrders(ctx, "bar1")
			Expect(err).ShouldNot(HaveOccurred())
			Expect(out).ShouldNot(BeNil())
			Expect(out).Should(BeEmpty())
		})
	})

	Context("AcknowledgeFiscal", func() {
		It("marks the order done", func() {
			ctx := context.Background()

			rep.EXPECT().SetFiscalID(ctx, int64(1), "FN-1", nil).Return(int64(1), nil)

			err := srv().AcknowledgeFiscal(ctx, 1, "FN-1")
			Expect(err).ShouldNot(HaveOccurred())
		})
		It("stores the fiscal id as sent", func() {
			ctx := context.Background()

			rep.EXPECT().SetFiscalID(ctx, int64(1), " FN-1 ", nil).Return(int64(1), nil)

			err := srv().AcknowledgeFiscal(ctx, 1, " FN-1 ")
			Expect(err).ShouldNot(HaveOccurred())
		})
		It("refuses an empty fiscal id", func() {
			err := srv().AcknowledgeFiscal(context.Background(), 1, "  ")
			Expect(err).Should(Equal(internal.ErrEmptyFiscalID))
		})
		It("reports an unknown order", func() {
			ctx := context.Background()

			rep.EXPECT().SetFiscalID(ctx, int64(8), "FN-8", nil).Return(int64(0), nil)
			rep.EXPECT().GetOrderByID(ctx, int64(8)).Return(model.Order{}, internal.ErrNoRecords)

			err := srv().AcknowledgeFiscal(ctx, 8, "FN-8")
			Expect(errors.Is(err, internal.ErrNoRecords)).Should(BeTrue())
		})
		It("guards the status in strict mode", func() {
			ctx := context.Background()
			opts.StrictTransitions = true

			rep.EXPECT().SetFiscalID(ctx, int64(1), "FN-1", []string{model.OrderStatusSent, model.OrderStatusDone}).Return(int64(0), nil)
			rep.EXPECT().GetOrderByID(ctx, int64(1)).Return(model.Order{ID: 1, Status: model.OrderStatusNew}, nil)

			err := srv().AcknowledgeFiscal(ctx, 1, "FN-1")
			Expect(errors.Is(err, internal.ErrInvalidTransition)).Should(BeTrue())
		})
	})

	Context("RequestRefund", func() {
		reason := "cold"
		amount := decimal.NewNullDecimal(decimal.RequireFromString("2.5"))

		It("stores refund metadata", func() {
			ctx := context.Background()
			in := model.RefundInput{ID: 3, Ammount: amount, Reason: &reason}

			rep.EXPECT().RequestRefund(ctx, int64(3), &model.Refund{Amount: amount, Reason: &reason}, nil).Return(int64(1), nil)

			err := srv().RequestRefund(ctx, in)
			Expect(err).ShouldNot(HaveOccurred())
		})
		It("discards metadata when disabled", func() {
			ctx := context.Background()
			opts.RefundMetadata = false

			rep.EXPECT().RequestRefund(ctx, int64(3), nil, nil).Return(int64(1), nil)

			err := srv().RequestRefund(ctx, model.RefundInput{ID: 3, Amount: amount})
			Expect(err).ShouldNot(HaveOccurred())
		})
		It("requires an id", func() {
			err := srv().RequestRefund(context.Background(), model.RefundInput{})
			Expect(errors.Is(err, internal.ErrInvalidOrder)).Should(BeTrue())
		})
		It("reports an unknown order", func() {
			ctx := context.Background()

			rep.EXPECT().RequestRefund(ctx, int64(3), gomock.Any(), nil).Return(int64(0), nil)
			rep.EXPECT().GetOrderByID(ctx, int64(3)).Return(model.Order{}, internal.ErrNoRecords)

			err := srv().RequestRefund(ctx, model.RefundInput{ID: 3})
			Expect(errors.Is(err, internal.ErrNoRecords)).Should(BeTrue())
		})
		It("refuses a second refund in strict mode", func() {
			ctx := context.Background()
			opts.StrictTransitions = true

			rep.EXPECT().RequestRefund(ctx, int64(3), gomock.Any(), []string{model.OrderStatusNew, model.OrderStatusSent, model.OrderStatusDone}).Return(int64(0), nil)
			rep.EXPECT().GetOrderByID(ctx, int64(3)).Return(model.Order{ID: 3, Status: model.OrderStatusRefundSent}, nil)

			err := srv().RequestRefund(ctx, model.RefundInput{ID: 3})
			Expect(errors.Is(err, internal.ErrInvalidTransition)).Should(BeTrue())
		})
	})

	Context("FetchPendingRefunds", func() {
		It("moves pending refunds to refund sent", func() {
			ctx := context.Background()
			orders := []model.Order{{ID: 4, Name: "Soup", FiscalID: "FN-4", Status: model.OrderStatusRefundSent}}

			rep.EXPECT().TakeOrders(ctx, "bar1", model.OrderStatusPendingRefundPrint, model.OrderStatusRefundSent).Return(orders, nil)

			out, err := srv().FetchPendingRefunds(ctx, "bar1")
			Expect(err).ShouldNot(HaveOccurred())
			Expect(out).Should(HaveLen(1))
			Expect(out[0].FiscalID).Should(Equal("FN-4"))
			Expect(out[0].Status).Should(Equal(model.OrderStatusRefundSent))
		})
		It("returns storage errors", func() {
			ctx := context.Background()
			e := errors.New("some error")

			rep.EXPECT().TakeOrders(ctx, "bar1", model.OrderStatusPendingRefundPrint, model.OrderStatusRefundSent).Return(nil, e)

			_, err := srv().FetchPendingRefunds(ctx, "bar1")
			Expect(err).Should(Equal(e))
		})
	})
})

func newItem(name, price string, quantity int, isFood bool) model.Item {
	return model.Item{
		Name:     &name,
		Price:    decimal.NewNullDecimal(decimal.RequireFromString(price)),
		Quantity: &quantity,
		IsFood:   &isFood,
	}
}

func newOrderInput(id *int64, venue string, items ...model.Item) model.OrderInput {
	t := "12:00"
	return model.OrderInput{
		Items: items,
		Time:  &t,
		Venue: venue,
		Total: decimal.NewNullDecimal(decimal.RequireFromString("9.5")),
		ID:    id,
	}
}
