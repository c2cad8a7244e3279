package application

import (
	"math"
	"strings"

	"quoteengine/internal/service/quote/domain"
)

const (
	maxStairs    = 20
	maxBasePrice = 100000
)

// QuoteRequest 是 POST /quote 的请求体
type QuoteRequest struct {
	ServiceType   string   `json:"serviceType"`
	LoadSize      string   `json:"loadSize"`
	ZipCode       string   `json:"zipCode"`
	AddOns        []string `json:"addOns,omitempty"`
	UserID        string   `json:"userId,omitempty"`
	BookingSource string   `json:"bookingSource,omitempty"`
	PromoCode     string   `json:"promoCode,omitempty"`
}

// CanonicalQuoteRequest 是校验和归一化之后的请求，计算只看这个结构。
type CanonicalQuoteRequest struct {
	ServiceType   domain.ServiceType
	Tier          domain.Tier
	RawLoadSize   string
	ZipCode       string
	AddOns        []string
	UserID        string
	BookingSource string
	PromoCode     string
}

// ParseQuoteRequest 是 /quote 唯一可能失败的步骤。
func ParseQuoteRequest(req QuoteRequest) (CanonicalQuoteRequest, error) {
	verr := &domain.ClientInputError{Message: "Invalid quote request"}

	st := domain.ServiceType(strings.TrimSpace(req.ServiceType))
	switch {
	case st == "":
		verr.Add("serviceType", "required")
	case !st.Valid():
		verr.Add("serviceType", "unsupported service type")
	}

	loadSize := strings.TrimSpace(req.LoadSize)
	if loadSize == "" {
		verr.Add("loadSize", "required")
	}

	zip := strings.TrimSpace(req.ZipCode)
	if msg := checkZip(zip); msg != "" {
		verr.Add("zipCode", msg)
	}

	var addOns []string
	for _, a := range req.AddOns {
		a = strings.ToLower(strings.TrimSpace(a))
		if a == "" {
			verr.Add("addOns", "must not contain empty entries")
			continue
		}
		addOns = append(addOns, a)
	}

	if err := verr.OrNil(); err != nil {
		return CanonicalQuoteRequest{}, err
	}

	return CanonicalQuoteRequest{
		ServiceType:   st,
		Tier:          domain.NormalizeLoadSize(loadSize),
		RawLoadSize:   loadSize,
		ZipCode:       zip,
		AddOns:        addOns,
		UserID:        strings.TrimSpace(req.UserID),
		BookingSource: strings.ToLower(strings.TrimSpace(req.BookingSource)),
		PromoCode:     domain.NormalizePromoCode(req.PromoCode),
	}, nil
}

// MoveQuoteRequest 是 POST /move-quote 的请求体，可选字段用指针区分“未传”和零值。
type MoveQuoteRequest struct {
	PickupZip         string   `json:"pickupZip"`
	DestinationZip    string   `json:"destinationZip"`
	PickupStairs      *int     `json:"pickupStairs,omitempty"`
	DestinationStairs *int     `json:"destinationStairs,omitempty"`
	ServiceMode       string   `json:"serviceMode,omitempty"`
	MoveServiceMode   string   `json:"moveServiceMode,omitempty"` // 旧版预约客户端的字段名
	BasePrice         *float64 `json:"basePrice,omitempty"`
}

// CanonicalMoveQuoteRequest 已填充默认值，但还没检查服务区域。
type CanonicalMoveQuoteRequest struct {
	PickupZip         string
	DestinationZip    string
	PickupStairs      int
	DestinationStairs int
	ServiceMode       domain.ServiceMode
	BasePrice         float64
}

// ParseMoveQuoteRequest 只做字段级校验；zip 是否在服务区域由 QuoteService.MoveQuote 判断。
func ParseMoveQuoteRequest(req MoveQuoteRequest, defaultBasePrice float64) (CanonicalMoveQuoteRequest, error) {
	verr := &domain.ClientInputError{Message: "Invalid move quote request"}

	pickup := strings.TrimSpace(req.PickupZip)
	if msg := checkZip(pickup); msg != "" {
		verr.Add("pickupZip", msg)
	}
	dest := strings.TrimSpace(req.DestinationZip)
	if msg := checkZip(dest); msg != "" {
		verr.Add("destinationZip", msg)
	}

	pickupStairs := derefInt(req.PickupStairs)
	if pickupStairs < 0 || pickupStairs > maxStairs {
		verr.Add("pickupStairs", "must be between 0 and 20")
	}
	destStairs := derefInt(req.DestinationStairs)
	if destStairs < 0 || destStairs > maxStairs {
		verr.Add("destinationStairs", "must be between 0 and 20")
	}

	mode := domain.ModeTruckAndMover
	m := strings.TrimSpace(req.ServiceMode)
	if m == "" {
		m = strings.TrimSpace(req.MoveServiceMode)
	}
	if m != "" {
		mode = domain.ServiceMode(strings.ToLower(m))
		if !mode.Valid() {
			verr.Add("serviceMode", "must be truck_and_mover or labor_only")
		}
	}

	// 0 与未传一样使用默认基础价
	basePrice := defaultBasePrice
	if req.BasePrice != nil {
		switch {
		case math.IsNaN(*req.BasePrice) || math.IsInf(*req.BasePrice, 0):
			verr.Add("basePrice", "must be a finite number")
		case *req.BasePrice < 0:
			verr.Add("basePrice", "must not be negative")
		case *req.BasePrice > maxBasePrice:
			verr.Add("basePrice", "must not exceed 100000")
		case *req.BasePrice > 0:
			basePrice = *req.BasePrice
		}
	}

	if err := verr.OrNil(); err != nil {
		return CanonicalMoveQuoteRequest{}, err
	}
	return CanonicalMoveQuoteRequest{
		PickupZip:         pickup,
		DestinationZip:    dest,
		PickupStairs:      pickupStairs,
		DestinationStairs: destStairs,
		ServiceMode:       mode,
		BasePrice:         basePrice,
	}, nil
}

func checkZip(zip string) string {
	switch {
	case zip == "":
		return "required"
	case len(zip) != 5:
		return "must be 5 characters"
	}
	return ""
}

func derefInt(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}

// MoveQuoteResponse 是 /move-quote 的响应
type MoveQuoteResponse struct {
	DistanceMiles     float64           `json:"distanceMiles"`
	PickupCoords      domain.Coordinate `json:"pickupCoords"`
	DestinationCoords domain.Coordinate `json:"destinationCoords"`
	domain.MoveQuote
}

// DumpDistanceResponse 是 /dump-distance/{zip} 的响应
type DumpDistanceResponse struct {
	Zip                   string  `json:"zip"`
	NearestDump           string  `json:"nearestDump"`
	DistanceMiles         float64 `json:"distanceMiles"`
	EstimatedDriveMinutes int     `json:"estimatedDriveMinutes"`
	DistanceFee           float64 `json:"distanceFee"`
}

// SupportedZipsResponse 是 /supported-zips 的响应
type SupportedZipsResponse struct {
	SupportedZips []string `json:"supportedZips"`
	ServiceArea   string   `json:"serviceArea"`
}
