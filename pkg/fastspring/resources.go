package fastspring

import (
	"encoding/json"
	"time"

	"github.com/fivetwenty-io/fastspring-client/internal/constants"
)

// Contact is a customer's contact details.
type Contact struct {
	First      string `json:"first,omitempty"      yaml:"first,omitempty"`
	Last       string `json:"last,omitempty"       yaml:"last,omitempty"`
	Email      string `json:"email,omitempty"      yaml:"email,omitempty"      validate:"omitempty,email"`
	Company    string `json:"company,omitempty"    yaml:"company,omitempty"`
	Phone      string `json:"phone,omitempty"      yaml:"phone,omitempty"`
	Subscribed *bool  `json:"subscribed,omitempty" yaml:"subscribed,omitempty"`
}

// Address is a postal address.
type Address struct {
	AddressLine1 string `json:"addressLine1,omitempty" yaml:"addressLine1,omitempty"`
	AddressLine2 string `json:"addressLine2,omitempty" yaml:"addressLine2,omitempty"`
	City         string `json:"city,omitempty"         yaml:"city,omitempty"`
	Region       string `json:"region,omitempty"       yaml:"region,omitempty"`
	PostalCode   string `json:"postalCode,omitempty"   yaml:"postalCode,omitempty"`
	Country      string `json:"country,omitempty"      yaml:"country,omitempty"      validate:"omitempty,len=2"`
	Company      string `json:"company,omitempty"      yaml:"company,omitempty"`
}

// Accounts

// AccountLookup holds the external identifiers of an account.
type AccountLookup struct {
	Global string `json:"global,omitempty" yaml:"global,omitempty"`
	Custom string `json:"custom,omitempty" yaml:"custom,omitempty"`
}

// Account is a FastSpring customer account.
type Account struct {
	ID            string        `json:"id,omitempty"            yaml:"id,omitempty"`
	Account       string        `json:"account,omitempty"       yaml:"account,omitempty"`
	Contact       Contact       `json:"contact"                 yaml:"contact"`
	Address       *Address      `json:"address,omitempty"       yaml:"address,omitempty"`
	Language      string        `json:"language,omitempty"      yaml:"language,omitempty"`
	Country       string        `json:"country,omitempty"       yaml:"country,omitempty"`
	Lookup        AccountLookup `json:"lookup"                  yaml:"lookup"`
	URL           string        `json:"url,omitempty"           yaml:"url,omitempty"`
	Orders        []string      `json:"orders,omitempty"        yaml:"orders,omitempty"`
	Subscriptions []string      `json:"subscriptions,omitempty" yaml:"subscriptions,omitempty"`
}

// Identifier returns the account id.
func (a *Account) Identifier() string {
	if a.ID != "" {
		return a.ID
	}

	return a.Account
}

// AccountList is a page of account ids, or of accounts for lookup queries.
type AccountList struct {
	Page `yaml:",inline"`

	Accounts []Ref[Account] `json:"accounts" yaml:"accounts"`
}

// AccountListParams filters account listings and lookups.
type AccountListParams struct {
	Email          string `schema:"email,omitempty"`
	Global         string `schema:"global,omitempty"`
	Custom         string `schema:"custom,omitempty"`
	OrderID        string `schema:"orderID,omitempty"`
	OrderReference string `schema:"orderReference,omitempty"`
	SubscriptionID string `schema:"subscriptionId,omitempty"`
	Page           int    `schema:"page,omitempty"`
	Limit          int    `schema:"limit,omitempty"`
}

// AccountCreateRequest creates an account.
type AccountCreateRequest struct {
	Contact  Contact        `json:"contact"            validate:"required"`
	Address  *Address       `json:"address,omitempty"`
	Language string         `json:"language,omitempty"`
	Country  string         `json:"country,omitempty"  validate:"omitempty,len=2"`
	Lookup   *AccountLookup `json:"lookup,omitempty"`
}

// AccountUpdateRequest updates an account. Nil fields are left unchanged.
type AccountUpdateRequest struct {
	Contact  *Contact       `json:"contact,omitempty"`
	Address  *Address       `json:"address,omitempty"`
	Language string         `json:"language,omitempty"`
	Country  string         `json:"country,omitempty"  validate:"omitempty,len=2"`
	Lookup   *AccountLookup `json:"lookup,omitempty"`
}

// AccountResult is returned by account create and update.
type AccountResult struct {
	ActionResult `yaml:",inline"`

	ID      string `json:"id,omitempty"      yaml:"id,omitempty"`
	Account string `json:"account,omitempty" yaml:"account,omitempty"`
}

// AuthenticatedURL is a one-time account management link.
type AuthenticatedURL struct {
	Account string `json:"account" yaml:"account"`
	URL     string `json:"url"     yaml:"url"`
}

// AccountManagementURL is returned by the account authenticate endpoint.
type AccountManagementURL struct {
	ActionResult `yaml:",inline"`

	Accounts []AuthenticatedURL `json:"accounts" yaml:"accounts"`
}

// Coupons

// CouponDiscount describes one discount a coupon grants.
type CouponDiscount struct {
	Type                string   `json:"type"                          yaml:"type"                          validate:"oneof=percent flat"`
	Percent             float64  `json:"percent,omitempty"             yaml:"percent,omitempty"`
	Amount              Price    `json:"amount,omitempty"              yaml:"amount,omitempty"`
	DiscountPeriodCount *int     `json:"discountPeriodCount,omitempty" yaml:"discountPeriodCount,omitempty"`
	Products            []string `json:"products,omitempty"            yaml:"products,omitempty"`
}

// CouponAvailability bounds when a coupon can be redeemed.
type CouponAvailability struct {
	Start string `json:"start,omitempty" yaml:"start,omitempty"`
	End   string `json:"end,omitempty"   yaml:"end,omitempty"`
}

// Coupon is a promotion that grants discounts through codes.
type Coupon struct {
	ID           string              `json:"id"                     yaml:"id"                     validate:"required"`
	Discount     *CouponDiscount     `json:"discount,omitempty"     yaml:"discount,omitempty"`
	Discounts    []CouponDiscount    `json:"discounts,omitempty"    yaml:"discounts,omitempty"    validate:"dive"`
	Combine      bool                `json:"combine,omitempty"      yaml:"combine,omitempty"`
	Reason       Display             `json:"reason,omitempty"       yaml:"reason,omitempty"`
	Limit        int                 `json:"limit,omitempty"        yaml:"limit,omitempty"`
	Available    *CouponAvailability `json:"available,omitempty"    yaml:"available,omitempty"`
	Codes        []string            `json:"codes,omitempty"        yaml:"codes,omitempty"`
	MaxDiscounts int                 `json:"maxDiscounts,omitempty" yaml:"maxDiscounts,omitempty"`
}

// CouponRequest creates or updates a coupon.
type CouponRequest = Coupon

// CouponList is the list of coupon ids.
type CouponList struct {
	Page `yaml:",inline"`

	Coupons []string `json:"coupons" yaml:"coupons"`
}

// CouponCodesRequest adds codes to a coupon.
type CouponCodesRequest struct {
	Codes []string `json:"codes" validate:"required,min=1"`
}

// CouponCodesLookup narrows a coupon codes lookup to specific codes.
type CouponCodesLookup struct {
	Codes []string `json:"codes,omitempty"`
}

// CouponCodes is the set of codes attached to a coupon.
type CouponCodes struct {
	ActionResult `yaml:",inline"`

	ID    string   `json:"id,omitempty"    yaml:"id,omitempty"`
	Codes []string `json:"codes,omitempty" yaml:"codes,omitempty"`
}

// CouponDeleteResult is returned when a coupon is deleted.
type CouponDeleteResult struct {
	ActionResult `yaml:",inline"`

	ID string `json:"id,omitempty" yaml:"id,omitempty"`
}

// Events

// Event is a FastSpring event as delivered by webhooks and the events API.
type Event struct {
	ID        string          `json:"id"                  yaml:"id"`
	Type      string          `json:"type"                yaml:"type"`
	Live      bool            `json:"live"                yaml:"live"`
	Processed bool            `json:"processed"           yaml:"processed"`
	Created   int64           `json:"created"             yaml:"created"`
	Data      json.RawMessage `json:"data,omitempty"      yaml:"-"`
}

// CreatedAt converts the millisecond epoch timestamp.
func (e Event) CreatedAt() time.Time {
	return time.UnixMilli(e.Created).UTC()
}

// EventList is a page of events.
type EventList struct {
	Page `yaml:",inline"`

	Events []Event `json:"events" yaml:"events"`
}

// EventListParams filters event listings.
type EventListParams struct {
	Days  int   `schema:"days,omitempty"`
	Begin int64 `schema:"begin,omitempty"`
	End   int64 `schema:"end,omitempty"`
	Page  int   `schema:"page,omitempty"`
	Limit int   `schema:"limit,omitempty"`
}

// EventUpdateRequest marks an event processed or unprocessed.
type EventUpdateRequest struct {
	Processed bool `json:"processed"`
}

// Orders

// OrderItem is a line of an order.
type OrderItem struct {
	Product         string                 `json:"product"                   yaml:"product"`
	Quantity        int                    `json:"quantity"                  yaml:"quantity"`
	Display         string                 `json:"display,omitempty"         yaml:"display,omitempty"`
	Sku             string                 `json:"sku,omitempty"             yaml:"sku,omitempty"`
	Subtotal        float64                `json:"subtotal"                  yaml:"subtotal"`
	SubtotalDisplay string                 `json:"subtotalDisplay,omitempty" yaml:"subtotalDisplay,omitempty"`
	Discount        float64                `json:"discount,omitempty"        yaml:"discount,omitempty"`
	Subscription    string                 `json:"subscription,omitempty"    yaml:"subscription,omitempty"`
	Fulfillments    map[string]interface{} `json:"fulfillments,omitempty"    yaml:"fulfillments,omitempty"`
}

// Order is a completed or pending purchase.
type Order struct {
	ID           string                 `json:"id,omitempty"           yaml:"id,omitempty"`
	Order        string                 `json:"order,omitempty"        yaml:"order,omitempty"`
	Reference    string                 `json:"reference,omitempty"    yaml:"reference,omitempty"`
	Live         bool                   `json:"live"                   yaml:"live"`
	Completed    bool                   `json:"completed"              yaml:"completed"`
	Changed      int64                  `json:"changed,omitempty"      yaml:"changed,omitempty"`
	Currency     string                 `json:"currency,omitempty"     yaml:"currency,omitempty"`
	Language     string                 `json:"language,omitempty"     yaml:"language,omitempty"`
	Account      string                 `json:"account,omitempty"      yaml:"account,omitempty"`
	Total        float64                `json:"total"                  yaml:"total"`
	TotalDisplay string                 `json:"totalDisplay,omitempty" yaml:"totalDisplay,omitempty"`
	Tax          float64                `json:"tax,omitempty"          yaml:"tax,omitempty"`
	Subtotal     float64                `json:"subtotal,omitempty"     yaml:"subtotal,omitempty"`
	Discount     float64                `json:"discount,omitempty"     yaml:"discount,omitempty"`
	Customer     *Contact               `json:"customer,omitempty"     yaml:"customer,omitempty"`
	Address      *Address               `json:"address,omitempty"      yaml:"address,omitempty"`
	Items        []OrderItem            `json:"items,omitempty"        yaml:"items,omitempty"`
	Tags         map[string]interface{} `json:"tags,omitempty"         yaml:"tags,omitempty"`
	InvoiceURL   string                 `json:"invoiceUrl,omitempty"   yaml:"invoiceUrl,omitempty"`
}

// Identifier returns the order id.
func (o *Order) Identifier() string {
	if o.ID != "" {
		return o.ID
	}

	return o.Order
}

// ChangedAt converts the millisecond epoch change timestamp.
func (o *Order) ChangedAt() time.Time {
	return time.UnixMilli(o.Changed).UTC()
}

// OrderList is a page of orders or order ids.
type OrderList struct {
	Page `yaml:",inline"`

	Orders []Ref[Order] `json:"orders" yaml:"orders"`
}

// OrderListParams filters order listings. Dates are YYYY-MM-DD.
type OrderListParams struct {
	Begin       string `schema:"begin,omitempty"`
	End         string `schema:"end,omitempty"`
	Days        int    `schema:"days,omitempty"`
	ReturnsOnly bool   `schema:"returns,omitempty"`
	Scope       string `schema:"scope,omitempty"`
	Page        int    `schema:"page,omitempty"`
	Limit       int    `schema:"limit,omitempty"`
}

// OrderUpdate changes tags or attributes of one order.
type OrderUpdate struct {
	Order      string                 `json:"order"                validate:"required"`
	Tags       map[string]interface{} `json:"tags,omitempty"`
	Attributes map[string]string      `json:"attributes,omitempty"`
}

// OrderUpdateRequest updates one or more orders.
type OrderUpdateRequest struct {
	Orders []OrderUpdate `json:"orders" validate:"required,min=1,dive"`
}

// OrderUpdateStatus reports the outcome for one order.
type OrderUpdateStatus struct {
	ActionResult `yaml:",inline"`

	Order string `json:"order" yaml:"order"`
}

// OrderUpdateResult is returned by the order update endpoint.
type OrderUpdateResult struct {
	Orders []OrderUpdateStatus `json:"orders" yaml:"orders"`
}

// Products

// ProductPricing is the price configuration of a product.
type ProductPricing struct {
	Trial            int     `json:"trial,omitempty"            yaml:"trial,omitempty"`
	Interval         string  `json:"interval,omitempty"         yaml:"interval,omitempty"`
	IntervalLength   int     `json:"intervalLength,omitempty"   yaml:"intervalLength,omitempty"`
	IntervalCount    *int    `json:"intervalCount,omitempty"    yaml:"intervalCount,omitempty"`
	QuantityBehavior string  `json:"quantityBehavior,omitempty" yaml:"quantityBehavior,omitempty"`
	QuantityDefault  int     `json:"quantityDefault,omitempty"  yaml:"quantityDefault,omitempty"`
	Price            Price   `json:"price,omitempty"            yaml:"price,omitempty"`
	Discount         Price   `json:"discount,omitempty"         yaml:"discount,omitempty"`
	DiscountReason   Display `json:"discountReason,omitempty"   yaml:"discountReason,omitempty"`
}

// Product is a catalog product.
type Product struct {
	Product     string             `json:"product"               yaml:"product"               validate:"required"`
	Display     Display            `json:"display,omitempty"     yaml:"display,omitempty"`
	Description map[string]Display `json:"description,omitempty" yaml:"description,omitempty"`
	Image       string             `json:"image,omitempty"       yaml:"image,omitempty"`
	Format      string             `json:"format,omitempty"      yaml:"format,omitempty"      validate:"omitempty,oneof=digital physical digital-and-physical"`
	Sku         string             `json:"sku,omitempty"         yaml:"sku,omitempty"`
	Attributes  map[string]string  `json:"attributes,omitempty"  yaml:"attributes,omitempty"`
	Pricing     *ProductPricing    `json:"pricing,omitempty"     yaml:"pricing,omitempty"`
	Offers      []ProductOffer     `json:"offers,omitempty"      yaml:"offers,omitempty"`
}

// ProductIDs is the list of product paths.
type ProductIDs struct {
	Page `yaml:",inline"`

	Products []string `json:"products" yaml:"products"`
}

// ProductList holds full product definitions.
type ProductList struct {
	Products []Product `json:"products" yaml:"products"`
}

// ProductsRequest creates or updates products.
type ProductsRequest struct {
	Products []Product `json:"products" validate:"required,min=1,dive"`
}

// ProductStatus reports the outcome for one product.
type ProductStatus struct {
	ActionResult `yaml:",inline"`

	Product string `json:"product" yaml:"product"`
}

// ProductsResult is returned by product upsert and delete.
type ProductsResult struct {
	Products []ProductStatus `json:"products" yaml:"products"`
}

// ProductOffer is an upsell, cross-sell or add-on attached to a product.
type ProductOffer struct {
	Type    string   `json:"type"              yaml:"type"              validate:"required"`
	Display Display  `json:"display,omitempty" yaml:"display,omitempty"`
	Items   []string `json:"items"             yaml:"items"             validate:"required,min=1"`
}

// ProductOffers is the set of offers of a product.
type ProductOffers struct {
	ActionResult `yaml:",inline"`

	Product string         `json:"product"          yaml:"product"`
	Offers  []ProductOffer `json:"offers,omitempty" yaml:"offers,omitempty"`
}

// ProductOffersRequest replaces the offers of one type.
type ProductOffersRequest = ProductOffer

// PriceParams localizes price lookups.
type PriceParams struct {
	Country  string `schema:"country,omitempty"`
	Currency string `schema:"currency,omitempty"`
	Page     int    `schema:"page,omitempty"`
	Limit    int    `schema:"limit,omitempty"`
}

// PricePoint is a localized price.
type PricePoint struct {
	Currency         string                 `json:"currency"                   yaml:"currency"`
	Price            float64                `json:"price"                      yaml:"price"`
	Display          string                 `json:"display"                    yaml:"display"`
	QuantityDiscount map[string]interface{} `json:"quantityDiscount,omitempty" yaml:"quantityDiscount,omitempty"`
	DiscountReason   Display                `json:"discountReason,omitempty"   yaml:"discountReason,omitempty"`
}

// ProductPrice maps country codes to prices for one product.
type ProductPrice struct {
	Product string                `json:"product" yaml:"product"`
	Pricing map[string]PricePoint `json:"pricing" yaml:"pricing"`
}

// ProductPriceList is a page of product prices.
type ProductPriceList struct {
	Page `yaml:",inline"`

	Products []ProductPrice `json:"products" yaml:"products"`
}

// ProductLanguages lists the languages a product is localized in.
type ProductLanguages struct {
	Product   string   `json:"product"   yaml:"product"`
	Languages []string `json:"languages" yaml:"languages"`
}

// ProductLocaleList is returned by the product locales endpoint.
type ProductLocaleList struct {
	Products []ProductLanguages `json:"products" yaml:"products"`
}

// Quotes

// QuoteItem is a line of a quote.
type QuoteItem struct {
	Product       string  `json:"product"                 yaml:"product"                 validate:"required"`
	Quantity      int     `json:"quantity"                yaml:"quantity"                validate:"min=1"`
	UnitListPrice float64 `json:"unitListPrice,omitempty" yaml:"unitListPrice,omitempty"`
}

// Quote is a sales quote.
type Quote struct {
	ID                 string                 `json:"id"                           yaml:"id"`
	QuoteURL           string                 `json:"quoteUrl,omitempty"           yaml:"quoteUrl,omitempty"`
	Name               string                 `json:"name,omitempty"               yaml:"name,omitempty"`
	Status             string                 `json:"status,omitempty"             yaml:"status,omitempty"`
	Currency           string                 `json:"currency,omitempty"           yaml:"currency,omitempty"`
	Language           string                 `json:"language,omitempty"           yaml:"language,omitempty"`
	Coupon             string                 `json:"coupon,omitempty"             yaml:"coupon,omitempty"`
	Discount           float64                `json:"discount,omitempty"           yaml:"discount,omitempty"`
	ExpirationDateDays int                    `json:"expirationDateDays,omitempty" yaml:"expirationDateDays,omitempty"`
	FulfillmentTerm    string                 `json:"fulfillmentTerm,omitempty"    yaml:"fulfillmentTerm,omitempty"`
	NetTermsDays       int                    `json:"netTermsDays,omitempty"       yaml:"netTermsDays,omitempty"`
	Notes              string                 `json:"notes,omitempty"              yaml:"notes,omitempty"`
	Tags               map[string]interface{} `json:"tags,omitempty"               yaml:"tags,omitempty"`
	Items              []QuoteItem            `json:"items,omitempty"              yaml:"items,omitempty"`
	Recipient          *Contact               `json:"recipient,omitempty"          yaml:"recipient,omitempty"`
	RecipientAddress   *Address               `json:"recipientAddress,omitempty"   yaml:"recipientAddress,omitempty"`
	Total              float64                `json:"total,omitempty"              yaml:"total,omitempty"`
	Created            string                 `json:"created,omitempty"            yaml:"created,omitempty"`
	Expires            string                 `json:"expires,omitempty"            yaml:"expires,omitempty"`
}

// QuoteList is a page of quotes.
type QuoteList struct {
	Page `yaml:",inline"`

	Quotes []Quote `json:"quotes" yaml:"quotes"`
}

// QuoteListParams filters quote listings.
type QuoteListParams struct {
	Statuses []string `schema:"statuses,omitempty"`
	Page     int      `schema:"page,omitempty"`
	Limit    int      `schema:"limit,omitempty"`
}

// QuoteRequest creates or updates a quote.
type QuoteRequest struct {
	Name               string                 `json:"name"                         validate:"required"`
	Currency           string                 `json:"currency,omitempty"`
	Language           string                 `json:"language,omitempty"`
	Coupon             string                 `json:"coupon,omitempty"`
	Discount           float64                `json:"discount,omitempty"`
	ExpirationDateDays int                    `json:"expirationDateDays,omitempty"`
	FulfillmentTerm    string                 `json:"fulfillmentTerm,omitempty"`
	NetTermsDays       int                    `json:"netTermsDays,omitempty"`
	Notes              string                 `json:"notes,omitempty"`
	Tags               map[string]interface{} `json:"tags,omitempty"`
	Items              []QuoteItem            `json:"items"                        validate:"required,min=1,dive"`
	Recipient          *Contact               `json:"recipient,omitempty"`
	RecipientAddress   *Address               `json:"recipientAddress,omitempty"`
}

// QuoteCancelRequest cancels a quote.
type QuoteCancelRequest struct {
	Note string `json:"note,omitempty"`
}

// Returns

// ReturnItem selects the product and quantity to return.
type ReturnItem struct {
	Product  string `json:"product"  yaml:"product"  validate:"required"`
	Quantity int    `json:"quantity" yaml:"quantity" validate:"min=1"`
}

// ReturnEntry requests a return or refund against one order.
type ReturnEntry struct {
	Order        string       `json:"order"                  validate:"required"`
	Reference    string       `json:"reference,omitempty"`
	Reason       string       `json:"reason,omitempty"`
	Note         string       `json:"note,omitempty"`
	Notification string       `json:"notification,omitempty"`
	FullOrder    bool         `json:"fullOrder,omitempty"`
	Products     []ReturnItem `json:"products,omitempty"     validate:"dive"`
}

// ReturnRequest creates one or more returns.
type ReturnRequest struct {
	Returns []ReturnEntry `json:"returns" validate:"required,min=1,dive"`
}

// Return is a processed return.
type Return struct {
	ActionResult `yaml:",inline"`

	Return       string      `json:"return"                 yaml:"return"`
	Reference    string      `json:"reference,omitempty"    yaml:"reference,omitempty"`
	Completed    bool        `json:"completed"              yaml:"completed"`
	Changed      int64       `json:"changed,omitempty"      yaml:"changed,omitempty"`
	Live         bool        `json:"live"                   yaml:"live"`
	Order        string      `json:"order,omitempty"        yaml:"order,omitempty"`
	Account      string      `json:"account,omitempty"      yaml:"account,omitempty"`
	Currency     string      `json:"currency,omitempty"     yaml:"currency,omitempty"`
	Total        float64     `json:"totalReturn,omitempty"  yaml:"totalReturn,omitempty"`
	TotalDisplay string      `json:"totalDisplay,omitempty" yaml:"totalDisplay,omitempty"`
	Reason       string      `json:"reason,omitempty"       yaml:"reason,omitempty"`
	Note         string      `json:"note,omitempty"         yaml:"note,omitempty"`
	Type         string      `json:"type,omitempty"         yaml:"type,omitempty"`
	Items        []OrderItem `json:"items,omitempty"        yaml:"items,omitempty"`
}

// ReturnList holds returns.
type ReturnList struct {
	Returns []Return `json:"returns" yaml:"returns"`
}

// Sessions

// SessionItem is a product placed into a session.
type SessionItem struct {
	Product  string `json:"product"  yaml:"product"  validate:"required"`
	Quantity int    `json:"quantity" yaml:"quantity" validate:"min=1"`
}

// SessionRequest creates a checkout session for an account.
type SessionRequest struct {
	Account  string                 `json:"account"            validate:"required"`
	Items    []SessionItem          `json:"items"              validate:"required,min=1,dive"`
	Coupon   string                 `json:"coupon,omitempty"`
	Language string                 `json:"language,omitempty"`
	Country  string                 `json:"country,omitempty"`
	Tags     map[string]interface{} `json:"tags,omitempty"`
}

// Session is a checkout session.
type Session struct {
	ID       string        `json:"id"                 yaml:"id"`
	Currency string        `json:"currency,omitempty" yaml:"currency,omitempty"`
	Expires  int64         `json:"expires,omitempty"  yaml:"expires,omitempty"`
	Order    *string       `json:"order,omitempty"    yaml:"order,omitempty"`
	Account  string        `json:"account,omitempty"  yaml:"account,omitempty"`
	Subtotal float64       `json:"subtotal,omitempty" yaml:"subtotal,omitempty"`
	Items    []SessionItem `json:"items,omitempty"    yaml:"items,omitempty"`
}

// Subscriptions

// SubscriptionAddon is an add-on product of a subscription.
type SubscriptionAddon struct {
	Product  string `json:"product"  yaml:"product"`
	Quantity int    `json:"quantity" yaml:"quantity"`
}

// Subscription is a recurring billing agreement.
type Subscription struct {
	ID             string                 `json:"id,omitempty"             yaml:"id,omitempty"`
	Subscription   string                 `json:"subscription,omitempty"   yaml:"subscription,omitempty"`
	Active         bool                   `json:"active"                   yaml:"active"`
	State          string                 `json:"state,omitempty"          yaml:"state,omitempty"`
	Live           bool                   `json:"live"                     yaml:"live"`
	Changed        int64                  `json:"changed,omitempty"        yaml:"changed,omitempty"`
	Currency       string                 `json:"currency,omitempty"       yaml:"currency,omitempty"`
	Account        string                 `json:"account,omitempty"        yaml:"account,omitempty"`
	Product        string                 `json:"product,omitempty"        yaml:"product,omitempty"`
	Sku            string                 `json:"sku,omitempty"            yaml:"sku,omitempty"`
	Display        string                 `json:"display,omitempty"        yaml:"display,omitempty"`
	Quantity       int                    `json:"quantity,omitempty"       yaml:"quantity,omitempty"`
	AutoRenew      bool                   `json:"autoRenew"                yaml:"autoRenew"`
	Price          float64                `json:"price,omitempty"          yaml:"price,omitempty"`
	PriceDisplay   string                 `json:"priceDisplay,omitempty"   yaml:"priceDisplay,omitempty"`
	Discount       float64                `json:"discount,omitempty"       yaml:"discount,omitempty"`
	Subtotal       float64                `json:"subtotal,omitempty"       yaml:"subtotal,omitempty"`
	Next           int64                  `json:"next,omitempty"           yaml:"next,omitempty"`
	NextDisplay    string                 `json:"nextDisplay,omitempty"    yaml:"nextDisplay,omitempty"`
	End            int64                  `json:"end,omitempty"            yaml:"end,omitempty"`
	IntervalUnit   string                 `json:"intervalUnit,omitempty"   yaml:"intervalUnit,omitempty"`
	IntervalLength int                    `json:"intervalLength,omitempty" yaml:"intervalLength,omitempty"`
	Paused         bool                   `json:"paused,omitempty"         yaml:"paused,omitempty"`
	Addons         []SubscriptionAddon    `json:"addons,omitempty"         yaml:"addons,omitempty"`
	Tags           map[string]interface{} `json:"tags,omitempty"           yaml:"tags,omitempty"`
}

// Identifier returns the subscription id.
func (s *Subscription) Identifier() string {
	if s.ID != "" {
		return s.ID
	}

	return s.Subscription
}

// NextChargeAt converts the millisecond epoch next charge timestamp.
func (s *Subscription) NextChargeAt() time.Time {
	return time.UnixMilli(s.Next).UTC()
}

// SubscriptionList is a page of subscriptions or subscription ids.
type SubscriptionList struct {
	Page `yaml:",inline"`

	Subscriptions []Ref[Subscription] `json:"subscriptions" yaml:"subscriptions"`
}

// SubscriptionListParams filters subscription listings.
type SubscriptionListParams struct {
	Accounts string `schema:"accounts,omitempty"`
	Begin    string `schema:"begin,omitempty"`
	End      string `schema:"end,omitempty"`
	Event    string `schema:"event,omitempty"`
	Products string `schema:"products,omitempty"`
	Scope    string `schema:"scope,omitempty"`
	Status   string `schema:"status,omitempty"`
	Page     int    `schema:"page,omitempty"`
	Limit    int    `schema:"limit,omitempty"`
}

// SubscriptionUpdate changes one subscription.
type SubscriptionUpdate struct {
	Subscription string                 `json:"subscription"       validate:"required"`
	Product      string                 `json:"product,omitempty"`
	Quantity     int                    `json:"quantity,omitempty"`
	Coupons      []string               `json:"coupons,omitempty"`
	Prorate      *bool                  `json:"prorate,omitempty"`
	Addons       []SubscriptionAddon    `json:"addons,omitempty"`
	Tags         map[string]interface{} `json:"tags,omitempty"`
}

// SubscriptionsUpdateRequest updates one or more subscriptions.
type SubscriptionsUpdateRequest struct {
	Subscriptions []SubscriptionUpdate `json:"subscriptions" validate:"required,min=1,dive"`
}

// SubscriptionStatus reports the outcome of an action on one subscription.
type SubscriptionStatus struct {
	ActionResult `yaml:",inline"`

	Subscription string `json:"subscription"         yaml:"subscription"`
	ResumeDate   string `json:"resumeDate,omitempty" yaml:"resumeDate,omitempty"`
}

// SubscriptionsResult is returned by bulk subscription actions.
type SubscriptionsResult struct {
	Subscriptions []SubscriptionStatus `json:"subscriptions" yaml:"subscriptions"`
}

// SubscriptionCancelParams controls when a cancellation takes effect. A nil
// BillingPeriod cancels at the end of the current period; zero cancels now.
type SubscriptionCancelParams struct {
	BillingPeriod *int `schema:"billingPeriod,omitempty"`
}

// CancelImmediately returns params that end a subscription right away.
func CancelImmediately() *SubscriptionCancelParams {
	now := 0

	return &SubscriptionCancelParams{BillingPeriod: &now}
}

// SubscriptionEntry is one billing period of a subscription.
type SubscriptionEntry struct {
	BeginPeriodDate string `json:"beginPeriodDate" yaml:"beginPeriodDate"`
	EndPeriodDate   string `json:"endPeriodDate"   yaml:"endPeriodDate"`
	Order           Order  `json:"order"           yaml:"order"`
}

// SubscriptionHistoryParams tunes the plan change history lookup.
type SubscriptionHistoryParams struct {
	IncludeAdditionalInfo bool   `schema:"includeAdditionalInfo,omitempty"`
	Scope                 string `schema:"scope,omitempty"`
}

// PlanChange is one change of a subscription's plan.
type PlanChange struct {
	Product   string  `json:"product"             yaml:"product"`
	Display   string  `json:"display,omitempty"   yaml:"display,omitempty"`
	Quantity  int     `json:"quantity,omitempty"  yaml:"quantity,omitempty"`
	Price     float64 `json:"price,omitempty"     yaml:"price,omitempty"`
	Type      string  `json:"type,omitempty"      yaml:"type,omitempty"`
	Timestamp int64   `json:"timestamp,omitempty" yaml:"timestamp,omitempty"`
}

// SubscriptionHistory is the plan change history of a subscription.
type SubscriptionHistory struct {
	ActionResult `yaml:",inline"`

	Subscription string       `json:"subscription,omitempty" yaml:"subscription,omitempty"`
	History      []PlanChange `json:"history"                yaml:"history"`
}

// SubscriptionPauseRequest pauses a subscription for a number of periods.
type SubscriptionPauseRequest struct {
	PausePeriodCount int `json:"pausePeriodCount" validate:"min=1"`
}

// ProrationEstimateRequest previews the cost of a plan change.
type ProrationEstimateRequest struct {
	Subscription string              `json:"subscription"       validate:"required"`
	Product      string              `json:"product,omitempty"`
	Quantity     int                 `json:"quantity,omitempty"`
	Coupons      []string            `json:"coupons,omitempty"`
	Addons       []SubscriptionAddon `json:"addons,omitempty"`
}

// PlanSummary summarizes a plan for proration estimates.
type PlanSummary struct {
	Product      string  `json:"product"                yaml:"product"`
	Display      string  `json:"display,omitempty"      yaml:"display,omitempty"`
	Quantity     int     `json:"quantity,omitempty"     yaml:"quantity,omitempty"`
	Price        float64 `json:"price,omitempty"        yaml:"price,omitempty"`
	PriceDisplay string  `json:"priceDisplay,omitempty" yaml:"priceDisplay,omitempty"`
}

// ProrationEstimate is the previewed outcome of a plan change.
type ProrationEstimate struct {
	Subscription      string      `json:"subscription"                yaml:"subscription"`
	Currency          string      `json:"currency,omitempty"          yaml:"currency,omitempty"`
	CurrentPlan       PlanSummary `json:"currentPlan"                 yaml:"currentPlan"`
	ProposedPlan      PlanSummary `json:"proposedPlan"                yaml:"proposedPlan"`
	ProratedCharge    float64     `json:"proratedItemCharge"          yaml:"proratedItemCharge"`
	ProratedCredit    float64     `json:"proratedItemCredit"          yaml:"proratedItemCredit"`
	ProratedTotal     float64     `json:"proratedItemTotal"           yaml:"proratedItemTotal"`
	ProratedTotalText string      `json:"proratedItemTotalDisplay,omitempty" yaml:"proratedItemTotalDisplay,omitempty"`
}

// SubscriptionCharge selects a managed subscription to rebill.
type SubscriptionCharge struct {
	Subscription string `json:"subscription" validate:"required"`
}

// SubscriptionChargeRequest rebills managed subscriptions.
type SubscriptionChargeRequest struct {
	Subscriptions []SubscriptionCharge `json:"subscriptions" validate:"required,min=1,dive"`
}

// Webhooks

// Webhook is an endpoint FastSpring posts events to.
type Webhook struct {
	ID         string   `json:"id,omitempty"         yaml:"id,omitempty"`
	URL        string   `json:"url"                  yaml:"url"                  validate:"required,url"`
	Events     []string `json:"events,omitempty"     yaml:"events,omitempty"`
	Secret     string   `json:"secret,omitempty"     yaml:"secret,omitempty"`
	Enabled    bool     `json:"enabled"              yaml:"enabled"`
	Live       bool     `json:"live"                 yaml:"live"`
	IncludePII bool     `json:"includePii,omitempty" yaml:"includePii,omitempty"`
}

// WebhookList holds webhooks.
type WebhookList struct {
	Webhooks []Webhook `json:"webhooks" yaml:"webhooks"`
}

// WebhookRequest creates or updates webhooks.
type WebhookRequest struct {
	Webhooks []Webhook `json:"webhooks" validate:"required,min=1,dive"`
}

// Reporting

// ReportFilter restricts the rows of a report.
type ReportFilter struct {
	StartDate    string   `json:"startDate,omitempty"`
	EndDate      string   `json:"endDate,omitempty"`
	Countries    []string `json:"countries,omitempty"`
	ProductPaths []string `json:"productPaths,omitempty"`
}

// ReportRequest asks the data API for a revenue or subscription report.
type ReportRequest struct {
	Filter             ReportFilter `json:"filter"`
	ReportColumns      []string     `json:"reportColumns,omitempty"`
	GroupBy            []string     `json:"groupBy,omitempty"`
	PageCount          int          `json:"pageCount,omitempty"`
	PageNumber         int          `json:"pageNumber,omitempty"`
	Async              bool         `json:"async"`
	NotificationEmails []string     `json:"notificationEmails,omitempty" validate:"omitempty,dive,email"`
}

// ReportJob is an asynchronous report generation job.
type ReportJob struct {
	ID       string          `json:"id"                 yaml:"id"`
	Name     string          `json:"name,omitempty"     yaml:"name,omitempty"`
	Status   string          `json:"status"             yaml:"status"`
	Created  string          `json:"created,omitempty"  yaml:"created,omitempty"`
	Updated  string          `json:"updated,omitempty"  yaml:"updated,omitempty"`
	Progress int             `json:"progress,omitempty" yaml:"progress,omitempty"`
	Error    string          `json:"error,omitempty"    yaml:"error,omitempty"`
	Data     json.RawMessage `json:"data,omitempty"     yaml:"-"`
}

// Done reports whether the job reached a terminal state.
func (j *ReportJob) Done() bool {
	switch j.Status {
	case constants.JobStateCompleted, constants.JobStateFailed, constants.JobStateCanceled:
		return true
	default:
		return false
	}
}

// ReportJobList holds report jobs.
type ReportJobList struct {
	Jobs []ReportJob `json:"jobs" yaml:"jobs"`
}
