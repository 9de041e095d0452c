package property

// Reduce applies an action to the state and returns the successor state. It
// is pure and total: unknown or zero-valued actions return the input
// unchanged, and updates or deletes that match no order are silent no-ops.
func Reduce(state State, action Action) State {
	switch a := action.(type) {
	case UpdateResident:
		next := state
		applyResidentChanges(&next.Resident, a.Changes)
		return next

	case UpdateInspection:
		next := state.Clone()
		applyInspectionChanges(&next.Inspection, a.Changes)
		return next

	case AddMaintenanceOrder:
		for _, order := range state.Analytics.Orders {
			if order.ID == a.Order.ID {
				return state
			}
		}
		next := state
		next.Analytics.Orders = append(append([]MaintenanceOrder(nil), state.Analytics.Orders...), a.Order)
		return next

	case UpdateMaintenanceOrder:
		next := state
		next.Analytics.Orders = append([]MaintenanceOrder(nil), state.Analytics.Orders...)
		for i := range next.Analytics.Orders {
			if next.Analytics.Orders[i].ID == a.ID {
				applyOrderChanges(&next.Analytics.Orders[i], a.Changes)
			}
		}
		return next

	case DeleteMaintenanceOrder:
		next := state
		orders := make([]MaintenanceOrder, 0, len(state.Analytics.Orders))
		for _, order := range state.Analytics.Orders {
			if order.ID != a.ID {
				orders = append(orders, order)
			}
		}
		next.Analytics.Orders = orders
		return next

	case SetLoading:
		next := state
		next.UI.Loading = a.Loading
		return next

	case SetError:
		next := state
		next.UI.Error = a.Message
		return next

	case SetActiveTab:
		next := state
		next.UI.ActiveTab = a.Tab
		return next

	case SetSearchQuery:
		next := state
		next.UI.SearchQuery = a.Query
		return next

	case SetSelectedRoom:
		next := state
		next.UI.SelectedRoom = a.Room
		return next

	case LoadData:
		next := state.Clone()
		if a.Snapshot.Resident != nil {
			next.Resident = *a.Snapshot.Resident
		}
		if a.Snapshot.Inspection != nil {
			inspection := *a.Snapshot.Inspection
			inspection.Items = clampItems(inspection.Items)
			next.Inspection = inspection
		}
		if a.Snapshot.Analytics != nil {
			next.Analytics = *a.Snapshot.Analytics
		}
		if a.Snapshot.UI != nil {
			next.UI = *a.Snapshot.UI
		}
		return next
	}

	return state
}

func applyResidentChanges(resident *Resident, changes ResidentChanges) {
	if changes.ID != nil {
		resident.ID = *changes.ID
	}
	if changes.Name != nil {
		resident.Name = *changes.Name
	}
	if changes.Room != nil {
		resident.Room = *changes.Room
	}
	if changes.Status != nil {
		resident.Status = *changes.Status
	}
	if changes.MoveInDate != nil {
		resident.MoveInDate = *changes.MoveInDate
	}
	if changes.MoveOutDate != nil {
		resident.MoveOutDate = *changes.MoveOutDate
	}
	if changes.Inspector != nil {
		resident.Inspector = *changes.Inspector
	}
	if changes.Successor != nil {
		resident.Successor = *changes.Successor
	}
	if changes.KeyNumber != nil {
		resident.KeyNumber = *changes.KeyNumber
	}
}

func applyInspectionChanges(inspection *Inspection, changes InspectionChanges) {
	if changes.Furniture != nil {
		inspection.Furniture = *changes.Furniture
	}
	if changes.Rooms != nil {
		rooms := make(map[string]RoomCondition, len(changes.Rooms))
		for name, condition := range changes.Rooms {
			rooms[name] = condition
		}
		inspection.Rooms = rooms
	}
	if changes.OverallScore != nil {
		inspection.OverallScore = *changes.OverallScore
	}
	if changes.CompletionRate != nil {
		inspection.CompletionRate = *changes.CompletionRate
	}
	if changes.Items != nil {
		inspection.Items = clampItems(changes.Items)
	}
}

func applyOrderChanges(order *MaintenanceOrder, changes OrderChanges) {
	if changes.Type != nil {
		order.Type = *changes.Type
	}
	if changes.Count != nil {
		order.Count = *changes.Count
	}
	if changes.AvgDays != nil {
		order.AvgDays = *changes.AvgDays
	}
	if changes.Status != nil {
		order.Status = *changes.Status
	}
	if changes.Priority != nil {
		order.Priority = *changes.Priority
	}
	if changes.Date != nil {
		order.Date = *changes.Date
	}
	if changes.Color != nil {
		order.Color = *changes.Color
	}
	if changes.AssignedTo != nil {
		order.AssignedTo = *changes.AssignedTo
	}
	if changes.Cost != nil {
		order.Cost = *changes.Cost
	}
	if changes.Description != nil {
		order.Description = *changes.Description
	}
}

// clampItems copies the item list, forcing negative quantities to zero.
func clampItems(items []FurnitureItem) []FurnitureItem {
	clamped := append([]FurnitureItem(nil), items...)
	for i := range clamped {
		if clamped[i].Quantity < 0 {
			clamped[i].Quantity = 0
		}
	}
	return clamped
}
