package interfaces

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"reflect"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"quoteengine/internal/pkg/logger"
	"quoteengine/internal/service/quote/application"
	"quoteengine/internal/service/quote/domain"
)

const maxBodyBytes = 64 << 10

// QuoteHandler 封装了报价服务的 HTTP 处理器
type QuoteHandler struct {
	service *application.QuoteService
	tracer  trace.Tracer
}

// NewQuoteHandler 创建一个新的 HTTP 处理器实例
func NewQuoteHandler(service *application.QuoteService) *QuoteHandler {
	return &QuoteHandler{service: service, tracer: otel.Tracer("quote-http")}
}

// RegisterRoutes 在 ServeMux 上注册所有路由
func (h *QuoteHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /quote", h.handleQuote)
	mux.HandleFunc("POST /move-quote", h.handleMoveQuote)
	mux.HandleFunc("GET /supported-zips", h.handleSupportedZips)
	mux.HandleFunc("GET /dump-distance/{zip}", h.handleDumpDistance)
}

type fieldErrorBody struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

type serviceAreaErrorBody struct {
	Error           string   `json:"error"`
	UnsupportedZips []string `json:"unsupportedZips"`
	Message         string   `json:"message"`
}

type messageErrorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func (h *QuoteHandler) handleQuote(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "http.Quote", trace.WithSpanKind(trace.SpanKindServer))
	defer span.End()

	var req application.QuoteRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	canonical, err := application.ParseQuoteRequest(req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, h.service.Quote(ctx, canonical))
}

func (h *QuoteHandler) handleMoveQuote(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "http.MoveQuote", trace.WithSpanKind(trace.SpanKindServer))
	defer span.End()

	var req application.MoveQuoteRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	canonical, err := application.ParseMoveQuoteRequest(req, h.service.DefaultMoveBasePrice())
	if err != nil {
		writeError(w, r, err)
		return
	}

	resp, err := h.service.MoveQuote(ctx, canonical)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, resp)
}

func (h *QuoteHandler) handleSupportedZips(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, h.service.SupportedZips())
}

func (h *QuoteHandler) handleDumpDistance(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "http.DumpDistance", trace.WithSpanKind(trace.SpanKindServer))
	defer span.End()

	zip := strings.TrimSpace(r.PathValue("zip"))
	resp, err := h.service.DumpDistance(ctx, zip)
	if err != nil {
		writeJSON(w, r, http.StatusBadRequest, messageErrorBody{
			Error:   "Unsupported zip code",
			Message: "We don't currently serve zip code " + zip + ".",
		})
		return
	}
	writeJSON(w, r, http.StatusOK, resp)
}

// decodeJSON 把 JSON 解析错误转换成带字段名的 ClientInputError
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	err := dec.Decode(dst)
	if err == nil {
		return nil
	}

	verr := &domain.ClientInputError{Message: "Invalid request body"}
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.Is(err, io.EOF):
		verr.Add("body", "required")
	case errors.As(err, &typeErr) && typeErr.Field != "":
		verr.Add(typeErr.Field, "must be "+jsonKind(typeErr.Type.Kind()))
	default:
		verr.Add("body", "malformed JSON")
	}
	return verr
}

func jsonKind(k reflect.Kind) string {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return "a number"
	case reflect.String:
		return "a string"
	case reflect.Bool:
		return "a boolean"
	case reflect.Slice, reflect.Array:
		return "an array"
	}
	return "an object"
}

// writeError 根据错误类型返回不同的 HTTP 状态码
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	if !domain.IsClientError(err) {
		logger.Ctx(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("unexpected error")
		writeInternalError(w)
		return
	}

	var (
		inputErr *domain.ClientInputError
		areaErr  *domain.ServiceAreaError
	)
	switch {
	case errors.As(err, &areaErr):
		writeJSON(w, r, http.StatusBadRequest, serviceAreaErrorBody{
			Error:           "Zip code not in service area",
			UnsupportedZips: areaErr.Zips(),
			Message:         "We don't currently serve " + strings.Join(areaErr.Zips(), " and ") + ".",
		})
	case errors.As(err, &inputErr):
		writeJSON(w, r, http.StatusBadRequest, fieldErrorBody{Error: inputErr.Message, Fields: inputErr.Fields})
	}
}

// writeJSON 先编码到 buffer，编码失败时还能改写成 500，不会发出空的 200。
func writeJSON(w http.ResponseWriter, r *http.Request, status int, body any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		logger.Ctx(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("failed to encode response")
		writeInternalError(w)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

func writeInternalError(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusInternalServerError)
	_, _ = w.Write([]byte(`{"error":"Internal server error","message":"Please try again."}` + "\n"))
}
