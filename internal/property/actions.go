package property

// Action is the closed union of state mutations the reducer understands.
// Each variant carries a concrete payload type; the untyped merge the
// dashboard grew up with is gone.
type Action interface {
	isAction()
}

// ResidentChanges is a partial resident update; nil fields stay untouched.
type ResidentChanges struct {
	ID          *string          `json:"id,omitempty"`
	Name        *string          `json:"name,omitempty"`
	Room        *string          `json:"room,omitempty"`
	Status      *ResidencyStatus `json:"status,omitempty"`
	MoveInDate  *string          `json:"moveInDate,omitempty"`
	MoveOutDate *string          `json:"moveOutDate,omitempty"`
	Inspector   *string          `json:"inspector,omitempty"`
	Successor   *string          `json:"nachfolger,omitempty"`
	KeyNumber   *string          `json:"schlüsselnummer,omitempty"`
}

// UpdateResident merges the given fields into the resident record.
type UpdateResident struct {
	Changes ResidentChanges
}

// InspectionChanges replaces the named inspection sections; nil sections stay
// untouched. Rooms and Items replace wholesale when present.
type InspectionChanges struct {
	Furniture      *FurnitureSummary        `json:"furniture,omitempty"`
	Rooms          map[string]RoomCondition `json:"rooms,omitempty"`
	OverallScore   *float64                 `json:"overallScore,omitempty"`
	CompletionRate *float64                 `json:"completionRate,omitempty"`
	Items          []FurnitureItem          `json:"rgtItems,omitempty"`
}

// UpdateInspection merges the given sections into the inspection data.
type UpdateInspection struct {
	Changes InspectionChanges
}

// AddMaintenanceOrder appends a new order. An order whose id is already
// present is ignored, preserving id uniqueness within the list.
type AddMaintenanceOrder struct {
	Order MaintenanceOrder
}

// OrderChanges is a partial maintenance-order update; nil fields stay
// untouched.
type OrderChanges struct {
	Type        *string      `json:"type,omitempty"`
	Count       *int         `json:"count,omitempty"`
	AvgDays     *float64     `json:"avgDays,omitempty"`
	Status      *OrderStatus `json:"status,omitempty"`
	Priority    *Priority    `json:"priority,omitempty"`
	Date        *string      `json:"date,omitempty"`
	Color       *string      `json:"color,omitempty"`
	AssignedTo  *string      `json:"assignedTo,omitempty"`
	Cost        *float64     `json:"cost,omitempty"`
	Description *string      `json:"description,omitempty"`
}

// UpdateMaintenanceOrder merges changes into the order with the given id.
// A missing id leaves the list unchanged.
type UpdateMaintenanceOrder struct {
	ID      string
	Changes OrderChanges
}

// DeleteMaintenanceOrder removes the order with the given id. A missing id
// leaves the list unchanged.
type DeleteMaintenanceOrder struct {
	ID string
}

// SetLoading toggles the transient loading flag.
type SetLoading struct {
	Loading bool
}

// SetError records a user-facing error message; an empty message clears it.
type SetError struct {
	Message string
}

// SetActiveTab records the currently visible tab.
type SetActiveTab struct {
	Tab string
}

// SetSearchQuery records the furniture search box content.
type SetSearchQuery struct {
	Query string
}

// SetSelectedRoom records the room picked in the assessment view; empty
// clears the selection.
type SetSelectedRoom struct {
	Room string
}

// Snapshot is a partial state document; nil sections keep their current
// value. It is what a persisted snapshot unmarshals into.
type Snapshot struct {
	Resident   *Resident   `json:"resident,omitempty"`
	Inspection *Inspection `json:"inspection,omitempty"`
	Analytics  *Analytics  `json:"analytics,omitempty"`
	UI         *UIState    `json:"ui,omitempty"`
}

// LoadData replaces whole top-level sections from a snapshot, typically the
// one read back from storage at startup.
type LoadData struct {
	Snapshot Snapshot
}

func (UpdateResident) isAction()         {}
func (UpdateInspection) isAction()       {}
func (AddMaintenanceOrder) isAction()    {}
func (UpdateMaintenanceOrder) isAction() {}
func (DeleteMaintenanceOrder) isAction() {}
func (SetLoading) isAction()             {}
func (SetError) isAction()               {}
func (SetActiveTab) isAction()           {}
func (SetSearchQuery) isAction()         {}
func (SetSelectedRoom) isAction()        {}
func (LoadData) isAction()               {}
