package models

// ParcelRequest is the body of POST /parcels and PUT /parcels/:id.
// Any cost, status or tracking fields a client sends are ignored.
type ParcelRequest struct {
	ParcelName   string     `json:"parcelName" binding:"required"`
	ParcelType   ParcelType `json:"parcelType" binding:"required,oneof=Document Non-Document"`
	ParcelWeight float64    `json:"parcelWeight,omitempty" binding:"gte=0,lte=100"`

	SenderName        string `json:"senderName" binding:"required"`
	SenderContact     string `json:"senderContact" binding:"required"`
	SenderRegion      string `json:"senderRegion" binding:"required"`
	SenderWarehouse   string `json:"senderWarehouse" binding:"required"`
	SenderAddress     string `json:"senderAddress" binding:"required"`
	PickupInstruction string `json:"pickupInstruction,omitempty"`

	ReceiverName        string `json:"receiverName" binding:"required"`
	ReceiverContact     string `json:"receiverContact" binding:"required"`
	ReceiverRegion      string `json:"receiverRegion" binding:"required"`
	ReceiverWarehouse   string `json:"receiverWarehouse" binding:"required"`
	ReceiverAddress     string `json:"receiverAddress" binding:"required"`
	DeliveryInstruction string `json:"deliveryInstruction,omitempty"`
}

// Details converts the request into the editable parcel fields.
func (r ParcelRequest) Details() ParcelDetails {
	return ParcelDetails{
		ParcelName:          r.ParcelName,
		ParcelType:          r.ParcelType,
		ParcelWeight:        r.ParcelWeight,
		SenderName:          r.SenderName,
		SenderContact:       r.SenderContact,
		SenderRegion:        r.SenderRegion,
		SenderWarehouse:     r.SenderWarehouse,
		SenderAddress:       r.SenderAddress,
		PickupInstruction:   r.PickupInstruction,
		ReceiverName:        r.ReceiverName,
		ReceiverContact:     r.ReceiverContact,
		ReceiverRegion:      r.ReceiverRegion,
		ReceiverWarehouse:   r.ReceiverWarehouse,
		ReceiverAddress:     r.ReceiverAddress,
		DeliveryInstruction: r.DeliveryInstruction,
	}
}

// QuoteRequest is the body of POST /parcels/quote.
type QuoteRequest struct {
	ParcelType     ParcelType `json:"parcelType" binding:"required,oneof=Document Non-Document"`
	ParcelWeight   float64    `json:"parcelWeight,omitempty" binding:"gte=0,lte=100"`
	SenderRegion   string     `json:"senderRegion"`
	ReceiverRegion string     `json:"receiverRegion"`
}

// DeliveryStatusRequest is the body of PATCH /parcels/:id. An empty status
// means the next stage.
type DeliveryStatusRequest struct {
	DeliveryStatus DeliveryStatus `json:"deliveryStatus" binding:"omitempty,oneof=ready-to-pickup in-transit delivered"`
}

// CreateUserRequest is the body of POST /users.
type CreateUserRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Name     string `json:"name,omitempty"`
	PhotoURL string `json:"photoURL,omitempty"`
}

// UpdateRoleRequest is the body of PATCH /users/:email/role.
type UpdateRoleRequest struct {
	Role Role `json:"role" binding:"required,oneof=user admin rider"`
}

// PaymentIntentRequest is the body of POST /create-payment-intent.
// ParcelID is preferred; Amount (smallest currency unit) and Currency are the
// legacy form used by older clients.
type PaymentIntentRequest struct {
	ParcelID string `json:"parcelId,omitempty"`
	Amount   int64  `json:"amount,omitempty"`
	Currency string `json:"currency,omitempty"`
}

// RecordPaymentRequest is the body of POST /payments.
type RecordPaymentRequest struct {
	TransactionID string `json:"transactionId" binding:"required"`
	ParcelID      string `json:"parcelId" binding:"required"`
	UserEmail     string `json:"userEmail" binding:"required,email"`
	Amount        int    `json:"amount" binding:"required,gt=0"`
	Currency      string `json:"currency" binding:"required"`
	PaymentMethod string `json:"paymentMethod"`
}

// RiderApplicationRequest is the body of POST /riders.
type RiderApplicationRequest struct {
	ApplicantName  string `json:"applicantName" binding:"required"`
	ApplicantEmail string `json:"applicantEmail" binding:"required,email"`
	Age            int    `json:"age" binding:"required,gte=18,lte=70"`
	Region         string `json:"region" binding:"required"`
	Warehouse      string `json:"warehouse" binding:"required"`
	Contact        string `json:"contact" binding:"required"`
	NID            string `json:"nid" binding:"required"`
	BikeBrand      string `json:"bikeBrand" binding:"required"`
	BikeRegNo      string `json:"bikeRegNo" binding:"required"`
}

// RiderStatusRequest is the body of PATCH /riders/:id/status.
type RiderStatusRequest struct {
	Status RiderStatus `json:"status" binding:"required,oneof=active rejected deactivated"`
}
