package tools

// Tool names the AI may call.
const (
	ToolCreateReservation = "create_reservation"
	ToolCreateOrder       = "create_order"
	ToolGetMenu           = "get_menu"
	ToolSwitchLanguage    = "switch_language"
	ToolEndCall           = "end_call"
	ToolTransferToStaff   = "transfer_to_staff"
)

// FunctionTool is the realtime session tool schema.
type FunctionTool struct {
	Type        string                 `json:"type"`
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	Parameters  map[string]interface{} `json:"parameters"`
}

func object(required []string, props map[string]interface{}) map[string]interface{} {
	schema := map[string]interface{}{
		"type":       "object",
		"properties": props,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

func prop(kind, description string) map[string]interface{} {
	return map[string]interface{}{"type": kind, "description": description}
}

// Definitions returns the tool schemas registered in the second session.update.
// transfer_to_staff is only offered when a hand-off can actually be placed.
func Definitions(escalation bool) []interface{} {
	defs := []interface{}{
		FunctionTool{
			Type:        "function",
			Name:        ToolCreateReservation,
			Description: "Book a table. Confirm every detail with the guest before calling.",
			Parameters: object([]string{"name", "date", "time", "guests"}, map[string]interface{}{
				"name":   prop("string", "Name the booking is under"),
				"phone":  prop("string", "Contact phone, defaults to the caller number"),
				"date":   prop("string", "Date as YYYY-MM-DD"),
				"time":   prop("string", "Time as HH:MM, 24 hour clock"),
				"guests": prop("integer", "Number of guests"),
				"notes":  prop("string", "Allergies, high chairs, occasion"),
			}),
		},
		FunctionTool{
			Type:        "function",
			Name:        ToolCreateOrder,
			Description: "Place a pickup or delivery order. Read the order and total back to the guest first.",
			Parameters: object([]string{"name", "items", "total"}, map[string]interface{}{
				"name":  prop("string", "Name for the order"),
				"phone": prop("string", "Contact phone, defaults to the caller number"),
				"items": map[string]interface{}{
					"type": "array",
					"items": object([]string{"name"}, map[string]interface{}{
						"name":     prop("string", "Menu item"),
						"quantity": prop("integer", "How many"),
						"notes":    prop("string", "Changes to the dish"),
					}),
				},
				"total":   prop("number", "Order total"),
				"type":    map[string]interface{}{"type": "string", "enum": []string{"pickup", "delivery"}},
				"address": prop("string", "Delivery address, required for delivery"),
				"time":    prop("string", "Requested time as HH:MM"),
			}),
		},
		FunctionTool{
			Type:        "function",
			Name:        ToolGetMenu,
			Description: "Look up dishes, prices and allergens.",
			Parameters: object(nil, map[string]interface{}{
				"category": prop("string", "Optional menu section, e.g. starters or desserts"),
			}),
		},
		FunctionTool{
			Type:        "function",
			Name:        ToolSwitchLanguage,
			Description: "Switch the conversation language when the guest speaks another language.",
			Parameters: object([]string{"language"}, map[string]interface{}{
				"language": prop("string", "ISO 639-1 code, e.g. en, es, fr"),
			}),
		},
		FunctionTool{
			Type:        "function",
			Name:        ToolEndCall,
			Description: "Hang up after saying goodbye. Do not call while still speaking.",
			Parameters:  object(nil, map[string]interface{}{}),
		},
	}
	if escalation {
		defs = append(defs, FunctionTool{
			Type:        "function",
			Name:        ToolTransferToStaff,
			Description: "Hand the call to a member of staff when you cannot help.",
			Parameters: object([]string{"summary"}, map[string]interface{}{
				"summary": prop("string", "One sentence describing what the guest needs"),
			}),
		})
	}
	return defs
}

// tracked tools have effects the guest can observe, so teardown waits for them.
func tracked(name string) bool {
	switch name {
	case ToolCreateReservation, ToolCreateOrder, ToolEndCall, ToolTransferToStaff:
		return true
	}
	return false
}
