package planner

import (
	"fmt"
	"strings"

	"kitchen-assistant/internal/pkg/common"
)

// UsageMode 庫存取用模式，決定生成端能不能用到庫存之外的食材
type UsageMode string

const (
	// UsageStrict 食材僅限該道菜的道地組成與現有庫存
	UsageStrict UsageMode = "strict"
	// UsageMain 允許補上常備食材與道地調味料
	UsageMain UsageMode = "main"
)

// ParseUsageMode 解析取用模式字串，認不得的輸入落在 UsageMain
func ParseUsageMode(s string) UsageMode {
	if strings.EqualFold(strings.TrimSpace(s), string(UsageStrict)) {
		return UsageStrict
	}
	return UsageMain
}

// 生成端的安全前言，與本地檢核層互為備援
const recipeSystemRules = `You are a professional chef creating authentic, traditional, and ethical recipes. ` +
	`Never create recipes with human flesh, pets, endangered animals, toxic or poisonous substances, ` +
	`inedible items, illegal drugs, or any harmful ingredients. ` +
	`Only create recipes with legitimate, edible food ingredients. If a request violates these rules, refuse it. ` +
	`When the user requests a specific dish, create that exact dish with only authentic ingredients. ` +
	`Authenticity matters more than using inventory items; do not force unrelated inventory into the dish.`

// BuildRecipePrompt 組合食譜生成提示詞
// 庫存清單、份數、偏好、取用模式與輸出格式說明都放在
// 同一段 user 訊息
func BuildRecipePrompt(items []common.InventoryItem, preferences string, servings int, mode UsageMode) string {
	var sb strings.Builder

	sb.WriteString(recipeSystemRules)
	sb.WriteString("\n\nGenerate a detailed recipe based on the following available ingredients and requirements.\n\n")
	sb.WriteString("Available ingredients in inventory:\n")
	sb.WriteString(common.FormatInventory(items))
	sb.WriteString("\nRequirements:\n")
	sb.WriteString(fmt.Sprintf("- Number of servings: %d\n", servings))
	if strings.TrimSpace(preferences) != "" {
		sb.WriteString(fmt.Sprintf("- Preferences: %s\n", strings.TrimSpace(preferences)))
		sb.WriteString("- If the preferences name a specific dish, create exactly that dish; never substitute or reinterpret the dish name\n")
	}

	sb.WriteString("\nIngredient usage rules:\n")
	switch mode {
	case UsageStrict:
		sb.WriteString("- Use only ingredients that belong to the requested dish's authentic ingredient set and that appear in the inventory above\n")
		sb.WriteString("- Do not force excess inventory items into the dish just because they are available\n")
	default:
		sb.WriteString("- Prefer ingredients from the inventory above\n")
		sb.WriteString("- You may add common pantry basics and authentic seasonings even when they are not in the inventory\n")
	}

	sb.WriteString(`
Please generate a complete recipe with:
1. A creative and descriptive recipe name
2. A brief description of the dish
3. A list of ingredients with exact quantities needed
4. Step-by-step cooking instructions

Important:
- Scale ingredient quantities appropriately for the number of servings requested
- Make sure the recipe is practical to cook
- If a cuisine type is specified, make the recipe authentic to that cuisine

Respond with a JSON object in this exact format:
{
  "name": "Recipe Name",
  "description": "Brief description of the dish",
  "servings": 4,
  "ingredients": [
    {"name": "ingredient name", "quantity": 1, "unit": "unit"}
  ],
  "instructions": [
    "Step 1 description",
    "Step 2 description"
  ]
}
`)

	return sb.String()
}
