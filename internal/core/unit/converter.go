package unit

import (
	"strings"
)

// Category 單位的量綱類別
type Category int

const (
	CategoryCount  Category = iota // 可數單位，不做換算
	CategoryVolume                 // 體積，基準單位為公升
	CategoryWeight                 // 重量，基準單位為公克
)

// String 回傳類別名稱
func (c Category) String() string {
	switch c {
	case CategoryVolume:
		return "volume"
	case CategoryWeight:
		return "weight"
	default:
		return "count"
	}
}

// GenericUnit 無法辨識單位時的通用代表
const GenericUnit = "units"

// aliases 單位拼寫對應的標準寫法
var aliases = map[string]string{
	// 體積
	"liter": "l", "liters": "l", "litre": "l", "litres": "l", "l": "l",
	"milliliter": "ml", "milliliters": "ml", "millilitre": "ml", "ml": "ml", "mls": "ml",
	"cup": "cup", "cups": "cup", "cupful": "cup", "cupfuls": "cup",
	"tablespoon": "tbsp", "tablespoons": "tbsp", "tbsp": "tbsp", "tbsps": "tbsp",
	"teaspoon": "tsp", "teaspoons": "tsp", "tsp": "tsp", "tsps": "tsp",

	// 重量
	"gram": "g", "grams": "g", "g": "g", "gs": "g",
	"kilogram": "kg", "kilograms": "kg", "kilo": "kg", "kg": "kg", "kgs": "kg",
	"ounce": "oz", "ounces": "oz", "oz": "oz", "ozs": "oz",
	"pound": "lb", "pounds": "lb", "lb": "lb", "lbs": "lb",

	// 可數單位
	"piece": "piece", "pieces": "piece", "pc": "piece", "pcs": "piece",
	"item": "item", "items": "item",
	"unit": GenericUnit, "units": GenericUnit,
	"bottle": "bottle", "bottles": "bottle",
	"can": "can", "cans": "can",
	"pack": "pack", "packs": "pack", "package": "pack", "packages": "pack",
	"head": "head", "heads": "head",
	"clove": "clove", "cloves": "clove",
	"loaf": "loaf", "loaves": "loaf",
	"bag": "bag", "bags": "bag",
	"box": "box", "boxes": "box",
}

// conversionToBase 標準單位換算到基準單位的係數
// 體積以公升為基準，重量以公克為基準
var conversionToBase = map[string]float64{
	"l":    1.0,
	"ml":   0.001,
	"cup":  0.236588,
	"tbsp": 0.0147868,
	"tsp":  0.00492892,

	"g":  1.0,
	"kg": 1000.0,
	"oz": 28.3495,
	"lb": 453.592,
}

// categories 標準單位所屬的量綱類別
var categories = map[string]Category{
	"l": CategoryVolume, "ml": CategoryVolume, "cup": CategoryVolume,
	"tbsp": CategoryVolume, "tsp": CategoryVolume,

	"g": CategoryWeight, "kg": CategoryWeight, "oz": CategoryWeight, "lb": CategoryWeight,
}

// Normalize 將單位拼寫正規化為標準寫法
// 無法辨識的輸入一律映射為通用單位，不回傳錯誤
func Normalize(u string) string {
	lower := strings.ToLower(strings.TrimSpace(u))
	if canonical, ok := aliases[lower]; ok {
		return canonical
	}
	return GenericUnit
}

// CategoryOf 查詢單位的量綱類別
func CategoryOf(u string) Category {
	canonical := Normalize(u)
	if cat, ok := categories[canonical]; ok {
		return cat
	}
	return CategoryCount
}

// Recognized 單位拼寫是否在詞彙表中
func Recognized(u string) bool {
	_, ok := aliases[strings.ToLower(strings.TrimSpace(u))]
	return ok
}

// Convert 將數量從一個單位換算為另一個單位
// 標準寫法相同時原值返回；單位無法辨識、類別不同或為可數單位時
// 回傳 false，呼叫方以此退回不換算的直加邏輯
func Convert(qty float64, from, to string) (float64, bool) {
	fromCanonical := Normalize(from)
	toCanonical := Normalize(to)

	if fromCanonical == toCanonical {
		return qty, true
	}

	fromFactor, fromOK := conversionToBase[fromCanonical]
	toFactor, toOK := conversionToBase[toCanonical]
	if !fromOK || !toOK {
		return 0, false
	}

	// 可數單位永不換算，類別不同也不換算
	if categories[fromCanonical] != categories[toCanonical] {
		return 0, false
	}

	return qty * fromFactor / toFactor, true
}

// BaseUnit 回傳單位所屬類別的基準單位
// 體積為公升、重量為公克，可數單位保持原標準寫法
func BaseUnit(u string) string {
	canonical := Normalize(u)
	switch CategoryOf(canonical) {
	case CategoryVolume:
		return "l"
	case CategoryWeight:
		return "g"
	default:
		return canonical
	}
}

// aliasGroups 食譜確認比對用的寬鬆相容群組
// 與上方量綱類別表刻意分開維護：這裡把所有可數別名視為
// 互相相容（例如 "piece" ≈ "unit"），僅用於確認餐點時的扣庫判斷
var aliasGroups = map[string]string{
	"l": "volume", "liter": "volume", "liters": "volume", "litre": "volume", "litres": "volume",
	"ml": "volume", "milliliter": "volume", "milliliters": "volume",
	"cup": "volume", "cups": "volume",
	"tbsp": "volume", "tablespoon": "volume", "tablespoons": "volume",
	"tsp": "volume", "teaspoon": "volume", "teaspoons": "volume",

	"g": "weight", "gram": "weight", "grams": "weight",
	"kg": "weight", "kilogram": "weight", "kilograms": "weight",
	"oz": "weight", "ounce": "weight", "ounces": "weight",
	"lb": "weight", "pound": "weight", "pounds": "weight",
}

// AliasCompatible 判斷兩個單位在食譜確認時是否視為相容
// 不在體積/重量群組內的單位（含空字串與未知單位）一律視為可數，
// 可數單位彼此相容
func AliasCompatible(a, b string) bool {
	groupA, okA := aliasGroups[strings.ToLower(strings.TrimSpace(a))]
	if !okA {
		groupA = "count"
	}
	groupB, okB := aliasGroups[strings.ToLower(strings.TrimSpace(b))]
	if !okB {
		groupB = "count"
	}
	return groupA == groupB
}
