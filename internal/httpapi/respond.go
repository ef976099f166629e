package httpapi

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/yuqie6/trainerhub/internal/dto"
	apperrors "github.com/yuqie6/trainerhub/internal/errors"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code apperrors.Code, msg string) {
	writeJSON(w, status, dto.ErrorDTO{Error: msg, Code: code.String()})
}

// writeAppError 统一把业务错误码映射为 HTTP 状态
func writeAppError(w http.ResponseWriter, r *http.Request, err error) {
	code := apperrors.GetCode(err)
	status := code.HTTPStatus()
	msg := apperrors.GetMessage(err)
	if status >= http.StatusInternalServerError {
		slog.Error("请求处理失败", "method", r.Method, "path", r.URL.Path, "code", code, "error", err)
		if code == apperrors.CodeInternal {
			msg = "internal error"
		}
	}
	writeError(w, status, code, msg)
}

func writeBadRequest(w http.ResponseWriter, msg string) {
	writeError(w, http.StatusBadRequest, apperrors.CodeInvalidArgument, msg)
}

func readJSON(r *http.Request, out any) error {
	defer r.Body.Close()
	dec := json.NewDecoder(io.LimitReader(r.Body, 1<<20))
	dec.DisallowUnknownFields()
	return dec.Decode(out)
}

func parseInt64Param(value string) (int64, error) {
	v := strings.TrimSpace(value)
	if v == "" {
		return 0, fmt.Errorf("参数为空")
	}
	return strconv.ParseInt(v, 10, 64)
}

// parseLimit 解析可选的 limit 查询参数，缺省为 0（全部）
func parseLimit(r *http.Request) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get("limit"))
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("limit 必须为非负整数")
	}
	return n, nil
}
