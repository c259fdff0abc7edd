package common

import (
	"errors"
	"net/http"
)

// ErrorResponse 定義 API 錯誤響應結構
type ErrorResponse struct {
	Code    string `json:"code"`              // 錯誤代碼
	Message string `json:"message"`           // 錯誤信息
	Details string `json:"details,omitempty"` // 詳細信息（僅在開發模式顯示）
}

// CustomError 定義自定義錯誤類型
type CustomError struct {
	Code    string // 錯誤代碼
	Message string // 錯誤信息
	Err     error  // 原始錯誤
	Status  int    // HTTP 狀態碼
}

func (e *CustomError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

// WithMessage 以相同錯誤代碼產生帶自訂訊息的錯誤
func (e *CustomError) WithMessage(message string) *CustomError {
	return &CustomError{
		Code:    e.Code,
		Message: message,
		Status:  e.Status,
	}
}

// Is 讓 errors.Is 以錯誤代碼比對
func (e *CustomError) Is(target error) bool {
	var ce *CustomError
	if errors.As(target, &ce) {
		return e.Code == ce.Code
	}
	return false
}

// NewError 創建新的自定義錯誤
func NewError(code string, message string, status int, err error) *CustomError {
	return &CustomError{
		Code:    code,
		Message: message,
		Status:  status,
		Err:     err,
	}
}

// ErrorCode 取出錯誤代碼；非 CustomError 一律視為內部錯誤
func ErrorCode(err error) string {
	var ce *CustomError
	if errors.As(err, &ce) {
		return ce.Code
	}
	return ErrCodeInternalError
}

// 預定義錯誤代碼
const (
	// 客戶端錯誤 (4xx)
	ErrCodeInvalidRequest   = "INVALID_REQUEST"    // 400
	ErrCodeUnauthorized     = "UNAUTHORIZED"       // 401
	ErrCodeNotFound         = "NOT_FOUND"          // 404
	ErrCodeRequestTimeout   = "REQUEST_TIMEOUT"    // 408
	ErrCodeConflict         = "CONFLICT"           // 409
	ErrCodeTooManyRequests  = "TOO_MANY_REQUESTS"  // 429

	// 服務器錯誤 (5xx)
	ErrCodeInternalError      = "INTERNAL_ERROR"      // 500
	ErrCodeServiceUnavailable = "SERVICE_UNAVAILABLE" // 503
	ErrCodeGatewayTimeout     = "GATEWAY_TIMEOUT"     // 504

	// 業務錯誤代碼
	ErrCodeItemNotFound           = "ITEM_NOT_FOUND"           // 庫存中找不到該項目
	ErrCodeInsufficientQuantity   = "INSUFFICIENT_QUANTITY"    // 庫存數量不足
	ErrCodeInvalidInput           = "INVALID_INPUT"            // 名稱為空或缺少必要數量
	ErrCodeUnrecognizedCommand    = "UNRECOGNIZED_COMMAND"     // 無法辨識的指令
	ErrCodeContentPolicyViolation = "CONTENT_POLICY_VIOLATION" // 一般性內容拒絕
	ErrCodeRestrictedContent      = "RESTRICTED_CONTENT"       // 受限食材的倫理性拒絕
	ErrCodeRecipeNotFound         = "RECIPE_NOT_FOUND"         // 快取中找不到食譜
)

// 預定義錯誤
var (
	// 客戶端錯誤
	ErrInvalidRequest  = NewError(ErrCodeInvalidRequest, "無效的請求", http.StatusBadRequest, nil)
	ErrUnauthorized    = NewError(ErrCodeUnauthorized, "未授權的訪問", http.StatusUnauthorized, nil)
	ErrNotFound        = NewError(ErrCodeNotFound, "資源不存在", http.StatusNotFound, nil)
	ErrRequestTimeout  = NewError(ErrCodeRequestTimeout, "請求超時", http.StatusRequestTimeout, nil)
	ErrTooManyRequests = NewError(ErrCodeTooManyRequests, "請求過於頻繁", http.StatusTooManyRequests, nil)

	// 服務器錯誤
	ErrInternalError      = NewError(ErrCodeInternalError, "服務器內部錯誤", http.StatusInternalServerError, nil)
	ErrServiceUnavailable = NewError(ErrCodeServiceUnavailable, "服務暫時不可用", http.StatusServiceUnavailable, nil)
	ErrGatewayTimeout     = NewError(ErrCodeGatewayTimeout, "網關超時", http.StatusGatewayTimeout, nil)

	// 業務錯誤
	ErrItemNotFound         = NewError(ErrCodeItemNotFound, "庫存中找不到該項目", http.StatusNotFound, nil)
	ErrInsufficientQuantity = NewError(ErrCodeInsufficientQuantity, "庫存數量不足", http.StatusConflict, nil)
	ErrInvalidInput         = NewError(ErrCodeInvalidInput, "輸入內容無效", http.StatusBadRequest, nil)
	ErrUnrecognizedCommand  = NewError(ErrCodeUnrecognizedCommand, "我不明白這個指令。", http.StatusBadRequest, nil)
	ErrContentPolicy        = NewError(ErrCodeContentPolicyViolation, "請求包含不當內容，無法處理。", http.StatusBadRequest, nil)
	ErrRestrictedContent    = NewError(ErrCodeRestrictedContent, "無法提供這類食譜。", http.StatusBadRequest, nil)
	ErrRecipeNotFound       = NewError(ErrCodeRecipeNotFound, "找不到食譜，請先生成食譜。", http.StatusNotFound, nil)
	ErrCacheFull            = NewError("CACHE_FULL", "緩存已滿", http.StatusServiceUnavailable, nil)
	ErrCacheDisabled        = NewError("CACHE_DISABLED", "緩存已禁用", http.StatusServiceUnavailable, nil)
	ErrAIServiceError       = NewError("AI_SERVICE_ERROR", "AI 服務錯誤", http.StatusServiceUnavailable, nil)
)
