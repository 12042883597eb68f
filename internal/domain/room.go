package domain

// Room represents a hotel room
type Room struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Class       string  `json:"class"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
	Capacity    int     `json:"capacity"`
	IsAvailable bool    `json:"is_available"`
}

// Validate validates all room fields
func (r *Room) Validate() error {
	if r.Name == "" || len(r.Name) > 100 {
		return ErrInvalidRoomName
	}
	if r.Class == "" || len(r.Class) > 50 {
		return ErrInvalidRoomClass
	}
	if r.Price < 0 {
		return ErrInvalidPrice
	}
	if len(r.Description) > 500 {
		return ErrInvalidDescription
	}
	if r.Capacity <= 0 {
		return ErrInvalidCapacity
	}
	return nil
}
