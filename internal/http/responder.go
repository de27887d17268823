package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/example/study-planner/internal/application"
)

var (
	errBadRequestBody = errors.New("รูปแบบข้อมูลที่ส่งมาไม่ถูกต้อง")
	errInvalidEntryID = errors.New("รหัสรายการไม่ถูกต้อง")
	errInvalidDate    = errors.New("วันที่ต้องอยู่ในรูปแบบ YYYY-MM-DD")
)

// Error codes carried in error responses.
const (
	codeBadRequest   = "BAD_REQUEST"
	codeNotFound     = "NOT_FOUND"
	codeMissingField = "MISSING_FIELD"
	codeInvalidRange = "INVALID_RANGE"
	codeTimeConflict = "TIME_CONFLICT"
	codeRateLimited  = "RATE_LIMITED"
	codeUnavailable  = "UNAVAILABLE"
	codeInternal     = "INTERNAL"
)

type responder struct {
	logger *slog.Logger
}

func newResponder(logger *slog.Logger) responder {
	if logger == nil {
		logger = slog.Default()
	}
	return responder{logger: logger}
}

func (r responder) writeJSON(ctx context.Context, w http.ResponseWriter, status int, payload any) {
	if w == nil {
		return
	}

	if status == http.StatusNoContent || payload == nil {
		w.WriteHeader(status)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		r.loggerFor(ctx).ErrorContext(ctx, "failed to encode response", "error", err)
	}
}

func (r responder) writeError(ctx context.Context, w http.ResponseWriter, status int, err error) {
	message := localizedStatusMessage(status)
	if err != nil {
		if msg := strings.TrimSpace(err.Error()); msg != "" {
			message = msg
		}
		r.loggerFor(ctx).WarnContext(ctx, "request failed", "status", status, "error", err)
	}

	r.writeJSON(ctx, w, status, errorResponse{ErrorCode: statusCode(status), Message: message})
}

func (r responder) handleServiceError(ctx context.Context, w http.ResponseWriter, err error) {
	if err == nil {
		r.writeError(ctx, w, http.StatusInternalServerError, errors.New("unknown error"))
		return
	}

	var vErr *application.ValidationError
	switch {
	case errors.Is(err, application.ErrNotFound):
		r.writeJSON(ctx, w, http.StatusNotFound, errorResponse{
			ErrorCode: codeNotFound,
			Message:   localizedStatusMessage(http.StatusNotFound),
		})
	case errors.As(err, &vErr):
		status, code := http.StatusUnprocessableEntity, codeMissingField
		switch vErr.Kind {
		case application.KindInvalidRange:
			code = codeInvalidRange
		case application.KindTimeConflict:
			status, code = http.StatusConflict, codeTimeConflict
		}
		r.writeJSON(ctx, w, status, errorResponse{
			ErrorCode:  code,
			Message:    vErr.Message(),
			Errors:     localizeValidationErrors(vErr),
			ConflictID: vErr.ConflictID,
		})
	default:
		r.loggerFor(ctx).ErrorContext(ctx, "unexpected service error", "error", err)
		r.writeJSON(ctx, w, http.StatusInternalServerError, errorResponse{
			ErrorCode: codeInternal,
			Message:   localizedStatusMessage(http.StatusInternalServerError),
		})
	}
}

func (r responder) loggerFor(ctx context.Context) *slog.Logger {
	if logger := LoggerFromContext(ctx); logger != nil {
		return logger
	}
	return r.logger
}

func statusCode(status int) string {
	switch status {
	case http.StatusBadRequest:
		return codeBadRequest
	case http.StatusNotFound:
		return codeNotFound
	case http.StatusTooManyRequests:
		return codeRateLimited
	case http.StatusServiceUnavailable:
		return codeUnavailable
	default:
		return codeInternal
	}
}

func localizedStatusMessage(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "คำขอไม่ถูกต้อง"
	case http.StatusNotFound:
		return "ไม่พบข้อมูลที่ต้องการ"
	case http.StatusConflict:
		return application.MessageTimeConflict
	case http.StatusUnprocessableEntity:
		return application.MessageMissingField
	case http.StatusTooManyRequests:
		return "มีคำขอมากเกินไป กรุณาลองใหม่อีกครั้ง"
	case http.StatusServiceUnavailable:
		return "ระบบจัดเก็บข้อมูลไม่พร้อมใช้งาน"
	default:
		return "เกิดข้อผิดพลาดภายในระบบ"
	}
}

// fieldLabels names form fields in Thai.
var fieldLabels = map[string]string{
	"code":         "รหัสวิชา",
	"name":         "ชื่อวิชา",
	"room":         "ห้องเรียน",
	"day":          "วันเรียน",
	"start":        "เวลาเริ่ม",
	"end":          "เวลาจบ",
	"color":        "สี",
	"exam_type":    "ประเภทการสอบ",
	"date":         "วันที่",
	"title":        "หัวข้อรายการ",
	"subject":      "ชื่อวิชา",
	"category":     "หมวดหมู่/ความสำคัญ",
	"other_detail": "รายละเอียดหมวดหมู่อื่นๆ",
	"start_time":   "เวลาเริ่ม",
	"end_time":     "เวลาจบ",
	"fullname":     "ชื่อ-นามสกุล",
	"student_id":   "รหัสนักศึกษา",
	"faculty":      "คณะ",
	"year":         "ชั้นปี",
}

func localizeValidationErrors(vErr *application.ValidationError) map[string]string {
	if vErr == nil || len(vErr.FieldErrors) == 0 {
		return nil
	}

	translated := make(map[string]string, len(vErr.FieldErrors))
	for field, msg := range vErr.FieldErrors {
		translated[field] = translateValidationMessage(field, msg)
	}
	return translated
}

func translateValidationMessage(field, message string) string {
	label, ok := fieldLabels[field]
	if !ok {
		return message
	}
	switch {
	case strings.HasSuffix(message, " is required"):
		return "กรุณาระบุ" + label
	case strings.HasSuffix(message, "must be HH:MM"):
		return label + "ต้องอยู่ในรูปแบบ HH:MM"
	case strings.HasPrefix(message, "date must be"):
		return "วันที่ไม่ถูกต้อง"
	case message == "day must be Monday to Friday":
		return "วันเรียนต้องเป็นวันจันทร์ถึงวันศุกร์"
	case message == "end must be after start":
		return application.MessageInvalidRange
	case strings.HasPrefix(message, "overlaps "):
		return "ชนกับช่วงเวลา " + strings.TrimPrefix(message, "overlaps ")
	default:
		return label + "ไม่ถูกต้อง"
	}
}

type errorResponse struct {
	ErrorCode  string            `json:"error_code,omitempty"`
	Message    string            `json:"message"`
	Errors     map[string]string `json:"errors,omitempty"`
	ConflictID string            `json:"conflict_id,omitempty"`
}
