package workflow

// 回應動作代碼
const (
	ActionInventoryUpdated = "inventory_updated"
	ActionInventoryList    = "inventory_list"
	ActionRecipeSuggested  = "recipe_suggested"
	ActionRecipeApplied    = "recipe_applied"
	ActionShoppingList     = "shopping_list"
)

// Result 指令執行結果
// 不論成功失敗都回完整信封，語音端拿 response_text 就能唸
type Result struct {
	Command        string      `json:"command"`
	CommandType    string      `json:"command_type,omitempty"`
	Success        bool        `json:"success"`
	ResponseText   string      `json:"response_text"`
	ResponseAction string      `json:"response_action,omitempty"`
	ResponseData   interface{} `json:"response_data,omitempty"`
	Error          string      `json:"error,omitempty"`
}
