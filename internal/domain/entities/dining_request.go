package entities

// Slot and queue attribute names shared by the fulfillment handler and the worker.
const (
	SlotLocation       = "Location"
	SlotCuisine        = "Cuisine"
	SlotNumberOfPeople = "NumberOfPeople"
	SlotDate           = "Date"
	SlotTime           = "Time"
	SlotEmail          = "Email"
)

// DiningRequestBody is the constant body carried by every queued request.
const DiningRequestBody = "user restaurant request"

// DiningRequestAttributes lists the queue attributes in validation order.
var DiningRequestAttributes = []string{
	SlotLocation,
	SlotCuisine,
	SlotNumberOfPeople,
	SlotDate,
	SlotTime,
	SlotEmail,
}

// DiningRequest is a validated restaurant request travelling through the queue.
type DiningRequest struct {
	Location       string
	Cuisine        string `validate:"required"`
	NumberOfPeople string
	Date           string
	Time           string
	Email          string `validate:"required"`
}

// Attributes renders the request as named string queue attributes.
func (r DiningRequest) Attributes() map[string]string {
	return map[string]string{
		SlotLocation:       r.Location,
		SlotCuisine:        r.Cuisine,
		SlotNumberOfPeople: r.NumberOfPeople,
		SlotDate:           r.Date,
		SlotTime:           r.Time,
		SlotEmail:          r.Email,
	}
}

// DiningRequestFromAttributes rebuilds a request from queue attributes.
// Absent attributes become empty strings.
func DiningRequestFromAttributes(attrs map[string]string) DiningRequest {
	return DiningRequest{
		Location:       attrs[SlotLocation],
		Cuisine:        attrs[SlotCuisine],
		NumberOfPeople: attrs[SlotNumberOfPeople],
		Date:           attrs[SlotDate],
		Time:           attrs[SlotTime],
		Email:          attrs[SlotEmail],
	}
}

// DiningRequestFromSlots builds a request from filled dialog slots.
func DiningRequestFromSlots(slots Slots) DiningRequest {
	return DiningRequest{
		Location:       slots.Value(SlotLocation),
		Cuisine:        slots.Value(SlotCuisine),
		NumberOfPeople: slots.Value(SlotNumberOfPeople),
		Date:           slots.Value(SlotDate),
		Time:           slots.Value(SlotTime),
		Email:          slots.Value(SlotEmail),
	}
}

// QueueMessage is a message received from the request queue.
type QueueMessage struct {
	ID            string
	ReceiptHandle string
	Body          string
	Attributes    map[string]string
}
