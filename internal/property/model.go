// Package property owns the dashboard's aggregate domain state: the resident
// record, inspection data, analytics and maintenance orders, and transient UI
// state. The aggregate is mutated exclusively through dispatched actions.
package property

// ResidencyStatus tracks where a resident stands in the move-in/move-out cycle.
type ResidencyStatus string

const (
	StatusMovingIn  ResidencyStatus = "moving-in"
	StatusMovingOut ResidencyStatus = "moving-out"
	StatusOccupied  ResidencyStatus = "occupied"
	StatusVacant    ResidencyStatus = "vacant"
)

// Resident is the record of the unit's current occupant.
type Resident struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Room        string          `json:"room"`
	Status      ResidencyStatus `json:"status"`
	MoveInDate  string          `json:"moveInDate"`
	MoveOutDate string          `json:"moveOutDate"`
	Inspector   string          `json:"inspector"`
	Successor   string          `json:"nachfolger,omitempty"`
	KeyNumber   string          `json:"schlüsselnummer"`
}

// FurnitureCondition is the inspection verdict for a single furniture item.
type FurnitureCondition string

const (
	FurniturePresent   FurnitureCondition = "vorhanden"
	FurnitureDefective FurnitureCondition = "defekt"
	FurnitureNoted     FurnitureCondition = "notiz"
)

// FurnitureItem is one line of the furniture checklist. Quantity is clamped
// to zero or above on the way into the state.
type FurnitureItem struct {
	ID        string             `json:"id"`
	Name      string             `json:"name"`
	Quantity  int                `json:"quantity"`
	Condition FurnitureCondition `json:"condition"`
	Category  string             `json:"category"`
	HasPhoto  bool               `json:"hasPhoto"`
	Notes     string             `json:"notes,omitempty"`
}

// RoomGrade is the coarse condition verdict for a room.
type RoomGrade string

const (
	GradeGood RoomGrade = "gut"
	GradeOkay RoomGrade = "okay"
	GradeBad  RoomGrade = "schlecht"
)

// Trend marks the direction a score has been moving.
type Trend string

const (
	TrendUp     Trend = "up"
	TrendDown   Trend = "down"
	TrendStable Trend = "stable"
)

// RoomCondition is the assessment of a single room.
type RoomCondition struct {
	Condition RoomGrade `json:"condition"`
	Score     float64   `json:"score"`
	Notes     string    `json:"notes"`
	Trend     Trend     `json:"trend"`
}

// FurnitureSummary tallies the checklist. No invariant ties Inspected or
// Defective to Total; callers are responsible for consistent counts.
type FurnitureSummary struct {
	Total     int `json:"total"`
	Inspected int `json:"inspected"`
	Defective int `json:"defective"`
}

// Inspection aggregates the move-out inspection data.
type Inspection struct {
	Furniture      FurnitureSummary         `json:"furniture"`
	Rooms          map[string]RoomCondition `json:"rooms"`
	OverallScore   float64                  `json:"overallScore"`
	CompletionRate float64                  `json:"completionRate"`
	Items          []FurnitureItem          `json:"rgtItems"`
}

// OrderStatus tracks a maintenance order through its lifecycle.
type OrderStatus string

const (
	OrderPending    OrderStatus = "pending"
	OrderInProgress OrderStatus = "progress"
	OrderCompleted  OrderStatus = "completed"
)

// Priority ranks maintenance orders.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// MaintenanceOrder is a grouped maintenance work item. Color is a display
// tag consumed by the excluded presentation layer.
type MaintenanceOrder struct {
	ID          string      `json:"id"`
	Type        string      `json:"type"`
	Count       int         `json:"count"`
	AvgDays     float64     `json:"avgDays"`
	Status      OrderStatus `json:"status"`
	Priority    Priority    `json:"priority"`
	Date        string      `json:"date"`
	Color       string      `json:"color"`
	AssignedTo  string      `json:"assignedTo,omitempty"`
	Cost        float64     `json:"cost,omitempty"`
	Description string      `json:"description,omitempty"`
}

// Occupancy counts rooms by usage class. The four classes are not required
// to sum to Total.
type Occupancy struct {
	Occupied int `json:"belegt"`
	Unusable int `json:"nichtNutzbar"`
	Vacant   int `json:"frei"`
	Sibo     int `json:"sibo"`
	Total    int `json:"total"`
}

// OrderCategory is one slice of the purchase-order breakdown.
type OrderCategory struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// PurchaseSummary aggregates purchase orders by category.
type PurchaseSummary struct {
	Total      int             `json:"total"`
	Categories []OrderCategory `json:"categories"`
}

// Households breaks residents down by household composition.
type Households struct {
	MultiPerson     int `json:"mehrpersonenhaushalten"`
	Single          int `json:"alleinstehend"`
	MarriedWithKids int `json:"ehepaareKinder"`
	FamilyWithKids  int `json:"familieMitKindern"`
	Partnerships    int `json:"paargemeinschaften"`
}

// BuildingScore is the building-wide condition index.
type BuildingScore struct {
	Score float64 `json:"score"`
	Trend Trend   `json:"trend"`
}

// Analytics aggregates occupancy, maintenance, and demographic figures.
type Analytics struct {
	Occupancy  Occupancy          `json:"occupancy"`
	Orders     []MaintenanceOrder `json:"orders"`
	Purchases  PurchaseSummary    `json:"bestellungen"`
	Households Households         `json:"bewohner"`
	Building   BuildingScore      `json:"gebäude"`
}

// UIState is transient per-session state. It is persisted with the snapshot
// but carries no meaning beyond the session.
type UIState struct {
	Loading      bool   `json:"loading"`
	Error        string `json:"error,omitempty"`
	ActiveTab    string `json:"activeTab"`
	SearchQuery  string `json:"searchQuery"`
	SelectedRoom string `json:"selectedRoom,omitempty"`
}

// State is the aggregate root for all dashboard domain data.
type State struct {
	Resident   Resident   `json:"resident"`
	Inspection Inspection `json:"inspection"`
	Analytics  Analytics  `json:"analytics"`
	UI         UIState    `json:"ui"`
}

// Clone returns a deep copy of the state.
func (s State) Clone() State {
	clone := s

	if s.Inspection.Rooms != nil {
		clone.Inspection.Rooms = make(map[string]RoomCondition, len(s.Inspection.Rooms))
		for name, condition := range s.Inspection.Rooms {
			clone.Inspection.Rooms[name] = condition
		}
	}
	clone.Inspection.Items = append([]FurnitureItem(nil), s.Inspection.Items...)
	clone.Analytics.Orders = append([]MaintenanceOrder(nil), s.Analytics.Orders...)
	clone.Analytics.Purchases.Categories = append([]OrderCategory(nil), s.Analytics.Purchases.Categories...)

	return clone
}

// DefaultState returns the built-in snapshot the dashboard starts from when
// no persisted data exists.
func DefaultState() State {
	return State{
		Resident: Resident{
			ID:          "1",
			Name:        "Max Mustermann",
			Room:        "WB 2 | Raum 0106",
			Status:      StatusMovingOut,
			MoveInDate:  "2018-11-04",
			MoveOutDate: "2018-09-04",
			Inspector:   "Sarah Schmidt",
			Successor:   "",
			KeyNumber:   "A-0106-001",
		},
		Inspection: Inspection{
			Furniture: FurnitureSummary{Total: 20, Inspected: 15, Defective: 2},
			Rooms: map[string]RoomCondition{
				"boden":    {Condition: GradeOkay, Score: 7.5, Notes: "Minor scratches", Trend: TrendUp},
				"bad":      {Condition: GradeGood, Score: 9.2, Notes: "Recently renovated", Trend: TrendUp},
				"mobiliar": {Condition: GradeOkay, Score: 6.8, Notes: "Normal wear", Trend: TrendDown},
				"wände":    {Condition: GradeBad, Score: 4.2, Notes: "Needs painting", Trend: TrendDown},
			},
			OverallScore:   2.7,
			CompletionRate: 75,
			Items: []FurnitureItem{
				{ID: "1", Name: "Bett", Quantity: 1, Condition: FurniturePresent, Category: "Schlafzimmer", HasPhoto: true},
				{ID: "2", Name: "Schreibtisch", Quantity: 1, Condition: FurnitureDefective, Category: "Schlafzimmer", HasPhoto: false},
				{ID: "3", Name: "Stuhl", Quantity: 2, Condition: FurniturePresent, Category: "Schlafzimmer", HasPhoto: true},
				{ID: "4", Name: "Kühlschrank", Quantity: 1, Condition: FurniturePresent, Category: "Küche", HasPhoto: true},
				{ID: "5", Name: "Herd", Quantity: 1, Condition: FurnitureNoted, Category: "Küche", HasPhoto: false},
			},
		},
		Analytics: Analytics{
			Occupancy: Occupancy{
				Occupied: 439,
				Unusable: 311,
				Vacant:   411,
				Sibo:     308,
				Total:    1469,
			},
			Orders: []MaintenanceOrder{
				{ID: "1", Type: "Fenster", Count: 48, AvgDays: 7.11, Status: OrderPending, Priority: PriorityHigh, Date: "2024-01-15", Color: "teal"},
				{ID: "2", Type: "Boden", Count: 7, AvgDays: 9.99, Status: OrderInProgress, Priority: PriorityMedium, Date: "2024-01-14", Color: "amber"},
				{ID: "3", Type: "Maler", Count: 25, AvgDays: 12.21, Status: OrderCompleted, Priority: PriorityHigh, Date: "2024-01-13", Color: "red"},
				{ID: "4", Type: "Türen", Count: 25, AvgDays: 6.21, Status: OrderPending, Priority: PriorityLow, Date: "2024-01-12", Color: "green"},
			},
			Purchases: PurchaseSummary{
				Total: 967,
				Categories: []OrderCategory{
					{Name: "Kategorie 1", Count: 7},
					{Name: "Kategorie 2", Count: 8},
					{Name: "Kategorie 3", Count: 3},
				},
			},
			Households: Households{
				MultiPerson:     20,
				Single:          23,
				MarriedWithKids: 36,
				FamilyWithKids:  49,
				Partnerships:    5,
			},
			Building: BuildingScore{Score: 27.5, Trend: TrendUp},
		},
		UI: UIState{
			ActiveTab: "übersicht",
		},
	}
}
