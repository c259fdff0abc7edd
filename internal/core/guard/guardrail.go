package guard

import (
	"regexp"
	"strings"

	"kitchen-assistant/internal/pkg/common"

	"go.uber.org/zap"
)

// ReasonRestricted 受限食材的哨兵理由
// 呼叫方據此回覆倫理性拒絕；拒絕文字不得回聲命中的詞，
// 避免被當成試探封鎖規則的神諭
const ReasonRestricted = "RESTRICTED_FOOD_ITEM"

// GenericRefusalMessage 一般性拒絕的理由文字
const GenericRefusalMessage = "Request contains inappropriate content and cannot be processed."

// ruleSet 整合後的內容安全規則
// 原始實作有多份範圍重疊的清單，這裡收斂為一份附明確
// 類別的規則集，全部走同一個全詞比對工具以免兩套實作分岐
type ruleSet struct {
	// 硬性封鎖詞：暴力、違法、個資、不當內容
	blockedKeywords []string
	// 食譜情境下的危險模式
	dangerousPatterns []string
	// 受限／非法食材：以哨兵理由回報，走倫理性拒絕
	restrictedItems []string
	// 已知誤判的例外詞，比對前先從文字中移除
	allowedExceptions []string
}

var defaultRules = ruleSet{
	blockedKeywords: []string{
		// 暴力
		"violence", "harm", "kill", "hurt", "attack",
		// 違法行為
		"illegal", "weapon", "explosive",
		// 個人資料
		"ssn", "credit card", "password",
		// 不當內容
		"explicit", "adult content", "nsfw",
	},
	dangerousPatterns: []string{
		"poison", "toxic", "harmful", "dangerous", "lethal", "deadly", "fatal",
	},
	restrictedItems: []string{
		// 人類相關
		"human", "flesh", "cannibalism", "corpse",
		// 保育類動物
		"endangered", "endangered species", "protected species",
		"elephant", "tiger", "lion", "whale", "dolphin", "panda", "gorilla",
		// 管制物質
		"drug", "narcotic", "controlled substance", "banned substance",
	},
	allowedExceptions: []string{
		"humanely raised", "human grade", "humane",
		"dogfish", "catnip",
		"tiger prawn", "tiger shrimp",
		"lion's mane", "lions mane",
		"monkey bread", "elephant ear", "bear claw",
	},
}

// wordBoundaryPatterns 預編譯的全詞比對規則，鍵為原始詞
// 全詞比對避免子字串誤判（"hummus" 不可因包含 "hum" 被擋）
var wordBoundaryPatterns = map[string]*regexp.Regexp{}

func init() {
	for _, terms := range [][]string{
		defaultRules.blockedKeywords,
		defaultRules.dangerousPatterns,
		defaultRules.restrictedItems,
	} {
		for _, term := range terms {
			if _, ok := wordBoundaryPatterns[term]; !ok {
				wordBoundaryPatterns[term] = regexp.MustCompile(`\b` + regexp.QuoteMeta(term) + `\b`)
			}
		}
	}
}

// Guardrail 生成呼叫前後的內容安全檢核層
type Guardrail struct {
	rules           ruleSet
	maxPromptLength int
}

// New 創建內容安全檢核層
func New(maxPromptLength int) *Guardrail {
	return &Guardrail{
		rules:           defaultRules,
		maxPromptLength: maxPromptLength,
	}
}

// matchTerm 在文字中找出第一個全詞命中的詞
func matchTerm(text string, terms []string) (string, bool) {
	for _, term := range terms {
		if wordBoundaryPatterns[term].MatchString(text) {
			return term, true
		}
	}
	return "", false
}

// stripExceptions 先移除已知誤判的例外詞再進行比對
func (g *Guardrail) stripExceptions(text string) string {
	for _, exception := range g.rules.allowedExceptions {
		text = strings.ReplaceAll(text, exception, "")
	}
	return text
}

// ValidateRequest 檢核使用者的食譜請求
// 依序套用：硬性封鎖詞、危險食譜模式、受限食材（回報哨兵
// 理由）、長度上限；任何情況下都不拋出例外
func (g *Guardrail) ValidateRequest(text string) (bool, string) {
	if text == "" {
		return true, ""
	}

	lower := g.stripExceptions(strings.ToLower(text))

	if term, hit := matchTerm(lower, g.rules.blockedKeywords); hit {
		common.LogWarn("封鎖不當請求",
			zap.String("命中詞", term),
		)
		return false, GenericRefusalMessage
	}

	if term, hit := matchTerm(lower, g.rules.dangerousPatterns); hit {
		common.LogWarn("封鎖危險食譜請求",
			zap.String("命中詞", term),
		)
		return false, GenericRefusalMessage
	}

	if term, hit := matchTerm(lower, g.rules.restrictedItems); hit {
		// 只記錄在日誌，理由不帶出命中詞
		common.LogInfo("偵測到受限食材請求",
			zap.String("命中詞", term),
		)
		return false, ReasonRestricted
	}

	if len(text) > g.maxPromptLength {
		return false, "Request is too long. Please keep it shorter."
	}

	return true, ""
}

// ValidateResponse 檢核生成的食譜內容
// 生成後端即使收到合規提示詞也不可信任，名稱與步驟再過一次
// 封鎖詞，食材名稱再過一次受限清單
func (g *Guardrail) ValidateResponse(recipe *common.Recipe) (bool, string) {
	if recipe == nil {
		return false, GenericRefusalMessage
	}

	nameAndSteps := strings.ToLower(recipe.Name + " " + strings.Join(recipe.Instructions, " "))
	if term, hit := matchTerm(nameAndSteps, g.rules.blockedKeywords); hit {
		common.LogWarn("封鎖生成內容",
			zap.String("命中詞", term),
		)
		return false, GenericRefusalMessage
	}

	var ingredientNames []string
	for _, ing := range recipe.Ingredients {
		ingredientNames = append(ingredientNames, strings.ToLower(ing.Name))
	}
	if term, hit := matchTerm(strings.Join(ingredientNames, " "), g.rules.restrictedItems); hit {
		common.LogWarn("封鎖生成食譜中的受限食材",
			zap.String("命中詞", term),
		)
		return false, ReasonRestricted
	}

	return true, ""
}

// EthicalRefusal 受限食材的固定拒絕食譜
// 與一般性拒絕分開：不透露拒絕原因的具體詞彙
func EthicalRefusal() *common.Recipe {
	return &common.Recipe{
		Name:        "Recipe Not Available",
		Description: "I apologize, but I don't have access to recipes involving restricted or illegal food items. I can help you find delicious and safe recipes using commonly available ingredients instead.",
		Servings:    4,
		Ingredients: []common.RecipeIngredient{},
		Instructions: []string{
			"I'm unable to provide recipes for restricted or illegal food items.",
			"Would you like me to suggest an alternative recipe using safe, legal ingredients?",
			"I can help you find recipes based on your dietary preferences and available ingredients.",
		},
	}
}

// GenericRefusal 一般性拒絕的固定食譜
func GenericRefusal() *common.Recipe {
	return &common.Recipe{
		Name:        "Request Cannot Be Processed",
		Description: "We cannot generate this type of content. Please request a recipe with appropriate, edible ingredients.",
		Servings:    4,
		Ingredients: []common.RecipeIngredient{},
		Instructions: []string{
			"Please request a recipe with appropriate, edible ingredients.",
		},
	}
}
