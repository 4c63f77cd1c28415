package callbacktypes

// Форматы callback data кнопок бота
const (
	BookPractice = "book_practice"
	BookTraining = "book_training"
	MyBookings   = "my_bookings"
	Help         = "help"
	Noop         = "noop"

	MenuBackToMain    = "menu:back_to_main"
	MenuBackToTariffs = "menu:back_to_tariffs"
	MenuCancelBooking = "menu:cancel_booking"

	Tariff   = "tariff:"   // tariff:<index>
	Slot     = "slot:"     // slot:<tariff index>:<week>:<row>
	Confirm  = "confirm:"  // confirm:<row>
	Training = "training:" // training:<row>
)
