package model

import "fmt"

// OrderStatus is the backend-owned lifecycle tag of an order.
type OrderStatus int

const (
	OrderPending    OrderStatus = 0
	OrderForwarded  OrderStatus = 1
	OrderAccepted   OrderStatus = 2
	OrderProcessing OrderStatus = 3
	OrderDelivering OrderStatus = 4

	OrderRejected             OrderStatus = 100
	OrderCancelled            OrderStatus = 101
	OrderCanceledMerchant     OrderStatus = 102
	OrderProblemMerchant      OrderStatus = 103
	OrderProblemFailToDeliver OrderStatus = 104

	OrderDone OrderStatus = 200
)

var orderStatusLabels = map[OrderStatus]string{
	OrderPending:              "Pending payment",
	OrderForwarded:            "Submitted to merchant",
	OrderAccepted:             "Accepted",
	OrderProcessing:           "Processing",
	OrderDelivering:           "Delivering",
	OrderRejected:             "Rejected by merchant",
	OrderCancelled:            "Cancelled",
	OrderCanceledMerchant:     "Cancelled by merchant",
	OrderProblemMerchant:      "Problem with merchant",
	OrderProblemFailToDeliver: "Failed to deliver",
	OrderDone:                 "Done",
}

func (s OrderStatus) String() string {
	if label, ok := orderStatusLabels[s]; ok {
		return label
	}
	return fmt.Sprintf("OrderStatus(%d)", int(s))
}

// IsTerminal reports whether the backend will not move the order any further.
func (s OrderStatus) IsTerminal() bool {
	return s >= OrderRejected
}

func (s OrderStatus) IsProblem() bool {
	return s == OrderProblemMerchant || s == OrderProblemFailToDeliver
}

type FoodOrder struct {
	ID    string     `json:"id"`
	Items []FoodItem `json:"items"`
	Total float64    `json:"total"`

	User     PartialIDAvatar `json:"user"`
	Merchant PartialIDAvatar `json:"merchant"`

	TargetAddress string      `json:"target_address"`
	Status        OrderStatus `json:"status"`

	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}
