package handler

import (
	"errors"
	"net/http"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"paylink/shared/pkg/apperr"
	"paylink/shared/pkg/middleware"
)

func respondError(c *gin.Context, log *zap.Logger, err error) {
	status := apperr.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		log.Error("request failed",
			zap.Error(err),
			zap.String("request_id", middleware.GetRequestID(c)))
	}

	if apperr.Is(err, apperr.Upstream) {
		c.JSON(status, gin.H{"error": "Errore server", "details": apperr.PublicMessage(err)})
		return
	}
	c.JSON(status, gin.H{"error": apperr.PublicMessage(err)})
}

// bindError turns a gin binding failure into an InvalidInput naming the
// offending JSON fields.
func bindError(err error, dst any) error {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return &apperr.AppError{Kind: apperr.InvalidInput, PublicMsg: "Dati non validi", Err: err}
	}

	fields := make([]string, 0, len(ve))
	for _, fe := range ve {
		fields = append(fields, jsonName(dst, fe.StructField()))
	}
	return &apperr.AppError{
		Kind:      apperr.InvalidInput,
		PublicMsg: "Dati non validi (" + strings.Join(fields, ", ") + ")",
		Err:       err,
	}
}

func jsonName(dst any, structField string) string {
	t := reflect.TypeOf(dst)
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return strings.ToLower(structField)
	}
	f, ok := t.FieldByName(structField)
	if !ok {
		return strings.ToLower(structField)
	}
	tag, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	if tag == "" || tag == "-" {
		return strings.ToLower(structField)
	}
	return tag
}
