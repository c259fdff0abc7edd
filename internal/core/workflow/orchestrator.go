package workflow

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"kitchen-assistant/internal/core/command"
	"kitchen-assistant/internal/core/inventory"
	"kitchen-assistant/internal/core/planner"
	"kitchen-assistant/internal/core/shopping"
	"kitchen-assistant/internal/pkg/common"

	"go.uber.org/zap"
)

// Orchestrator 指令編排器
// 一條指令進來：解析、分派到對應代理、組出完整回應信封。
// 每條指令恰好落在一個終端動作上，錯誤也走同一條路出去
type Orchestrator struct {
	parser     *command.Parser
	inventory  *inventory.Agent
	shopping   *shopping.Agent
	planner    *planner.Service
	reconciler *planner.Reconciler
}

// NewOrchestrator 創建指令編排器
func NewOrchestrator(
	parser *command.Parser,
	inventoryAgent *inventory.Agent,
	shoppingAgent *shopping.Agent,
	plannerService *planner.Service,
	reconciler *planner.Reconciler,
) *Orchestrator {
	return &Orchestrator{
		parser:     parser,
		inventory:  inventoryAgent,
		shopping:   shoppingAgent,
		planner:    plannerService,
		reconciler: reconciler,
	}
}

// Execute 執行一條自然語言指令
func (o *Orchestrator) Execute(ctx context.Context, owner, text string, servings int) *Result {
	parsed := o.parser.Parse(text)

	result := &Result{
		Command:     text,
		CommandType: string(parsed.Intent),
	}

	common.LogInfo("指令已解析",
		zap.String("指令", text),
		zap.String("類型", string(parsed.Intent)),
		zap.String("品項", parsed.ItemName),
	)

	switch parsed.Intent {
	case command.IntentAdd:
		o.handleAdd(ctx, owner, parsed, result)
	case command.IntentRemove:
		o.handleRemove(ctx, owner, parsed, result)
	case command.IntentUpdate:
		o.handleUpdate(ctx, owner, parsed, result)
	case command.IntentInventory:
		o.handleInventory(ctx, owner, result)
	case command.IntentShopping:
		o.handleShopping(ctx, owner, result)
	case command.IntentRecipe:
		o.handleRecipe(ctx, owner, parsed, servings, result)
	default:
		result.Success = false
		result.Error = command.UnknownCommandMessage
		result.ResponseText = command.UnknownCommandMessage
	}

	return result
}

// ConfirmRecipe 確認下廚，扣庫存並記缺料
func (o *Orchestrator) ConfirmRecipe(ctx context.Context, owner, recipeName string, servings int) *Result {
	result := &Result{
		Command:     fmt.Sprintf("confirm recipe %s", recipeName),
		CommandType: string(command.IntentRecipe),
	}

	confirm, err := o.reconciler.Confirm(ctx, owner, recipeName, servings)
	if err != nil {
		o.fail(result, err, "Sorry, I couldn't apply the recipe")
		return result
	}

	result.Success = true
	result.ResponseAction = ActionRecipeApplied
	result.ResponseData = confirm
	result.ResponseText = confirm.Message
	return result
}

func (o *Orchestrator) handleAdd(ctx context.Context, owner string, parsed *command.ParsedCommand, result *Result) {
	if parsed.ItemName == "" {
		o.fail(result, common.ErrInvalidInput.WithMessage("I couldn't tell which item to add."), "")
		return
	}

	qty := 1.0
	if parsed.Quantity != nil {
		qty = *parsed.Quantity
	}

	item, err := o.inventory.Add(ctx, owner, parsed.ItemName, qty, parsed.Unit)
	if err != nil {
		o.fail(result, err, "Sorry, I couldn't process that")
		return
	}

	result.Success = true
	result.ResponseAction = ActionInventoryUpdated
	result.ResponseData = item
	result.ResponseText = fmt.Sprintf("Added %g %s of %s to your inventory.", item.Quantity, item.Unit, item.Name)
}

func (o *Orchestrator) handleRemove(ctx context.Context, owner string, parsed *command.ParsedCommand, result *Result) {
	if parsed.ItemName == "" {
		o.fail(result, common.ErrInvalidInput.WithMessage("I couldn't tell which item to remove."), "")
		return
	}

	item, err := o.inventory.Remove(ctx, owner, parsed.ItemName, parsed.Quantity, parsed.Unit)
	if err != nil {
		o.fail(result, err, "Sorry, I couldn't process that")
		return
	}

	result.Success = true
	result.ResponseAction = ActionInventoryUpdated
	result.ResponseData = item
	if item.Quantity == 0 {
		result.ResponseText = fmt.Sprintf("Removed %s from your inventory.", item.Name)
	} else {
		result.ResponseText = fmt.Sprintf("Removed %g %s of %s. Remaining: %g %s.",
			*parsed.Quantity, item.Unit, item.Name, item.Quantity, item.Unit)
	}
}

func (o *Orchestrator) handleUpdate(ctx context.Context, owner string, parsed *command.ParsedCommand, result *Result) {
	if parsed.ItemName == "" {
		o.fail(result, common.ErrInvalidInput.WithMessage("I couldn't tell which item to update."), "")
		return
	}
	if parsed.Quantity == nil {
		o.fail(result, common.ErrInvalidInput.WithMessage("Quantity is required for update operation."), "")
		return
	}

	item, err := o.inventory.Update(ctx, owner, parsed.ItemName, *parsed.Quantity, parsed.Unit)
	if err != nil {
		o.fail(result, err, "Sorry, I couldn't process that")
		return
	}

	result.Success = true
	result.ResponseAction = ActionInventoryUpdated
	result.ResponseData = item
	result.ResponseText = fmt.Sprintf("Updated %s quantity to %g %s.", item.Name, item.Quantity, item.Unit)
}

func (o *Orchestrator) handleInventory(ctx context.Context, owner string, result *Result) {
	items, err := o.inventory.List(ctx, owner)
	if err != nil {
		o.fail(result, err, "Sorry, I couldn't get your inventory")
		return
	}

	summary, err := o.inventory.Summary(ctx, owner)
	if err != nil {
		o.fail(result, err, "Sorry, I couldn't get your inventory")
		return
	}

	result.Success = true
	result.ResponseAction = ActionInventoryList
	result.ResponseData = items
	if len(items) == 0 {
		result.ResponseText = "Your inventory is empty. You can add items by saying 'add milk to inventory'."
	} else {
		result.ResponseText = summary
	}
}

func (o *Orchestrator) handleShopping(ctx context.Context, owner string, result *Result) {
	items, err := o.inventory.List(ctx, owner)
	if err != nil {
		o.fail(result, err, "Sorry, I couldn't generate your shopping list")
		return
	}

	suggestions, err := o.shopping.Generate(ctx, owner, items)
	if err != nil {
		o.fail(result, err, "Sorry, I couldn't generate your shopping list")
		return
	}

	if err := o.shopping.AddSuggestions(ctx, owner, suggestions); err != nil {
		o.fail(result, err, "Sorry, I couldn't generate your shopping list")
		return
	}

	result.Success = true
	result.ResponseAction = ActionShoppingList
	result.ResponseData = suggestions

	if len(suggestions) == 0 {
		result.ResponseText = "Great! You have all the items you need. Your inventory looks good."
		return
	}

	const spokenLimit = 5
	var parts []string
	for i, s := range suggestions {
		if i >= spokenLimit {
			break
		}
		parts = append(parts, fmt.Sprintf("%s (need %g %s)", s.Name, s.SuggestedQuantity, s.Unit))
	}
	text := fmt.Sprintf("Here's your shopping list: %s", strings.Join(parts, ", "))
	if len(suggestions) > spokenLimit {
		text += fmt.Sprintf(", and %d more items", len(suggestions)-spokenLimit)
	}
	result.ResponseText = text + "."
}

func (o *Orchestrator) handleRecipe(ctx context.Context, owner string, parsed *command.ParsedCommand, servings int, result *Result) {
	items, err := o.inventory.List(ctx, owner)
	if err != nil {
		o.fail(result, err, "Sorry, I couldn't suggest a recipe")
		return
	}

	recipe, err := o.planner.Suggest(ctx, owner, parsed.Preferences, servings, planner.UsageMain, items)
	if err != nil {
		o.fail(result, err, "Sorry, I couldn't suggest a recipe")
		return
	}

	result.Success = true
	result.ResponseAction = ActionRecipeSuggested
	result.ResponseData = recipe

	if len(items) == 0 {
		result.ResponseText = "Your inventory is empty. Please add some ingredients first."
		return
	}

	text := fmt.Sprintf("I suggest making %s. %s It serves %d people.",
		recipe.Name, recipe.Description, recipe.Servings)
	if len(recipe.Ingredients) > 0 {
		text += fmt.Sprintf(" You'll need: %s.", common.FormatRecipeIngredients(recipe.Ingredients))
	}
	result.ResponseText = text
}

// fail 統一的失敗出口，信封永遠是填滿的
func (o *Orchestrator) fail(result *Result, err error, prefix string) {
	result.Success = false

	message := err.Error()
	var custom *common.CustomError
	if errors.As(err, &custom) {
		message = custom.Message
	}

	result.Error = message
	if prefix != "" {
		result.ResponseText = fmt.Sprintf("%s: %s", prefix, message)
	} else {
		result.ResponseText = message
	}
}
