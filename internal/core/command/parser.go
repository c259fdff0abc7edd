package command

import (
	"regexp"
	"strconv"
	"strings"
)

// Intent 指令意圖
type Intent string

const (
	IntentAdd       Intent = "add"       // 新增庫存
	IntentRemove    Intent = "remove"    // 移除庫存
	IntentUpdate    Intent = "update"    // 覆寫庫存
	IntentRecipe    Intent = "recipe"    // 食譜建議
	IntentShopping  Intent = "shopping"  // 購物清單
	IntentInventory Intent = "inventory" // 庫存查詢
	IntentUnknown   Intent = "unknown"   // 無法辨識
)

// UnknownCommandMessage 無法辨識指令時的固定回覆
const UnknownCommandMessage = "I didn't understand that command."

// ParsedCommand 解析後的指令，每個指令只解析一次、由單一處理器消費
type ParsedCommand struct {
	Intent      Intent   `json:"intent"`
	ItemName    string   `json:"item_name,omitempty"`
	Quantity    *float64 `json:"quantity,omitempty"`
	Unit        string   `json:"unit,omitempty"`
	Preferences string   `json:"preferences,omitempty"` // 食譜意圖的菜名或偏好
}

// rule 同義詞規則，依宣告順序逐一比對
// 順序即優先級，避免依賴集合迭代順序造成的不確定行為
type rule struct {
	intent   Intent
	synonyms []string
}

// 第一層規則：食譜／購物／庫存查詢
// 「create」「make」這類動詞語意廣泛，必須先於增刪改比對，
// 否則會被句子其他位置偶然出現的增刪詞搶走
var primaryRules = []rule{
	{IntentRecipe, []string{"suggest", "recommend", "recipe", "cook", "make", "prepare", "dish", "meal", "food", "create", "generate", "plan", "biryani", "curry"}},
	{IntentShopping, []string{"shopping", "buy", "purchase", "need", "list", "grocery", "shop", "market"}},
	{IntentInventory, []string{"inventory", "ingredients", "stock", "items", "have", "what", "show", "display"}},
}

// 第二層規則：增刪改，只在第一層沒有任何命中時檢查
var secondaryRules = []rule{
	{IntentAdd, []string{"add", "insert", "include", "put", "place", "store", "keep", "save", "enter", "register"}},
	{IntentRemove, []string{"remove", "delete", "take", "exclude", "eliminate", "drop", "discard", "withdraw"}},
	{IntentUpdate, []string{"update", "change", "modify", "set", "adjust", "alter", "edit", "revise"}},
}

// 數量的文字寫法
var wordNumbers = map[string]float64{
	"one": 1, "two": 2, "three": 3, "four": 4, "five": 5,
	"six": 6, "seven": 7, "eight": 8, "nine": 9, "ten": 10,
}

// 封閉的單位詞彙表，槽位抽取只認這些拼寫
var unitVocabulary = map[string]bool{
	"cup": true, "cups": true, "tablespoon": true, "tablespoons": true, "tbsp": true,
	"teaspoon": true, "teaspoons": true, "tsp": true,
	"liter": true, "liters": true, "l": true, "ml": true,
	"gram": true, "grams": true, "g": true, "kg": true, "oz": true, "lb": true, "lbs": true,
	"piece": true, "pieces": true, "unit": true, "units": true,
	"bottle": true, "bottles": true, "can": true, "cans": true,
	"pack": true, "packs": true, "head": true, "heads": true,
	"clove": true, "cloves": true, "loaf": true, "loaves": true,
	"bag": true, "bags": true, "box": true, "boxes": true,
}

// 項目名稱抽取時跳過的虛詞
var stopwords = map[string]bool{
	"to": true, "from": true, "in": true, "the": true, "a": true, "an": true,
	"my": true, "your": true, "inventory": true, "stock": true, "of": true, "full": true,
}

// 食譜指令裡的填充詞，留下來的才是菜名或偏好
// 「make chicken biryani」要抽出「chicken biryani」，
// 「suggest a recipe」則什麼都不剩
var recipeFillerWords = map[string]bool{
	"suggest": true, "recommend": true, "recipe": true, "cook": true, "make": true,
	"prepare": true, "create": true, "generate": true, "plan": true,
	"dish": true, "meal": true, "food": true, "something": true,
	"me": true, "i": true, "you": true, "us": true, "we": true, "please": true,
	"want": true, "like": true, "can": true, "could": true, "would": true,
	"with": true, "using": true, "for": true, "ingredients": true, "items": true,
	"dinner": true, "lunch": true, "breakfast": true, "tonight": true, "today": true,
}

var nonWordPattern = regexp.MustCompile(`[^\w\s]`)

// Tokenize 將文字切成小寫單詞，移除標點符號
// 空輸入回傳空序列，永不失敗
func Tokenize(text string) []string {
	if text == "" {
		return nil
	}
	cleaned := nonWordPattern.ReplaceAllString(strings.ToLower(text), " ")
	return strings.Fields(cleaned)
}

// Parser 指令解析器
type Parser struct{}

// NewParser 創建指令解析器
func NewParser() *Parser {
	return &Parser{}
}

// Parse 解析原始指令文字
// 分類永不回傳錯誤：無法辨識以 IntentUnknown 表示
func (p *Parser) Parse(text string) *ParsedCommand {
	tokens := Tokenize(text)

	intent, triggerIdx := Classify(tokens)
	parsed := &ParsedCommand{Intent: intent}

	// 只有增刪改需要抽取槽位
	if intent == IntentAdd || intent == IntentRemove || intent == IntentUpdate {
		qty, unitTok, consumed := extractQuantityAndUnit(tokens, triggerIdx+1)
		parsed.Quantity = qty
		parsed.Unit = unitTok

		skip := map[int]bool{triggerIdx: true}
		for i := triggerIdx + 1; i <= triggerIdx+consumed; i++ {
			skip[i] = true
		}
		parsed.ItemName = extractItemName(tokens, skip)
	}

	if intent == IntentRecipe {
		parsed.Preferences = extractPreferences(tokens)
	}

	return parsed
}

// extractPreferences 從食譜指令抽出菜名或偏好
// 去掉填充詞與虛詞後照原順序拼回；觸發詞不特別排除，
// 菜名（biryani、curry）本身就可能是觸發詞
func extractPreferences(tokens []string) string {
	var words []string
	for _, token := range tokens {
		if stopwords[token] || recipeFillerWords[token] {
			continue
		}
		words = append(words, token)
	}
	return strings.TrimSpace(strings.Join(words, " "))
}

// Classify 掃描 token 判定主導意圖，回傳意圖與觸發詞位置
// 先逐 token 比對第一層規則，全部落空後才比對第二層；
// 同一 token 命中多條規則時以規則宣告順序為準
func Classify(tokens []string) (Intent, int) {
	for i, token := range tokens {
		for _, r := range primaryRules {
			if matchSynonym(token, r.synonyms) {
				return r.intent, i
			}
		}
	}

	for i, token := range tokens {
		for _, r := range secondaryRules {
			if matchSynonym(token, r.synonyms) {
				return r.intent, i
			}
		}
	}

	return IntentUnknown, -1
}

// matchSynonym 寬鬆的同義詞比對：完全相等或子字串
// 刻意放寬以容忍字尾變化（adding、removes）；
// 反向包含要求 token 至少三個字元，免得 "i"、"a"
// 這類虛詞嵌在長同義詞裡被誤判
func matchSynonym(token string, synonyms []string) bool {
	if token == "" {
		return false
	}
	for _, syn := range synonyms {
		if token == syn || strings.Contains(token, syn) {
			return true
		}
		if len(token) >= 3 && strings.Contains(syn, token) {
			return true
		}
	}
	return false
}

// extractQuantityAndUnit 從觸發詞之後抽取數量與單位
// 兩者皆為可選；回傳消費掉的 token 數
func extractQuantityAndUnit(tokens []string, start int) (*float64, string, int) {
	if start >= len(tokens) {
		return nil, "", 0
	}

	var qty *float64
	consumed := 0

	if v, err := strconv.ParseFloat(tokens[start], 64); err == nil {
		qty = &v
		consumed = 1
	} else if v, ok := wordNumbers[tokens[start]]; ok {
		qty = &v
		consumed = 1
	}

	var unitTok string
	if qty != nil && start+consumed < len(tokens) {
		if unitVocabulary[tokens[start+consumed]] {
			unitTok = tokens[start+consumed]
			consumed++
		}
	}

	return qty, unitTok, consumed
}

// extractItemName 將未被觸發詞、數量單位槽位消費且非虛詞的
// token 依原順序拼回項目名稱；一無所剩時回傳空字串
func extractItemName(tokens []string, skip map[int]bool) string {
	var words []string
	for i, token := range tokens {
		if skip[i] || stopwords[token] {
			continue
		}
		words = append(words, token)
	}
	return strings.TrimSpace(strings.Join(words, " "))
}
