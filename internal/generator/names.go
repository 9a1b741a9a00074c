package generator

// Списки имён подобраны под британскую аудиторию кампании,
// по аналогии с en_GB-локалью источника данных.

var firstNames = []string{
	"Oliver", "George", "Harry", "Jack", "Charlie", "Thomas", "Jacob", "Alfie",
	"Oscar", "William", "James", "Henry", "Leo", "Joshua", "Freddie", "Archie",
	"Ethan", "Isaac", "Alexander", "Edward", "Samuel", "Daniel", "Arthur", "Max",
	"David", "Michael", "Peter", "Richard", "Robert", "Andrew", "Stephen", "Paul",
	"Olivia", "Amelia", "Isla", "Emily", "Poppy", "Ava", "Isabella", "Jessica",
	"Lily", "Sophie", "Grace", "Sophia", "Mia", "Evie", "Ruby", "Ella",
	"Scarlett", "Chloe", "Charlotte", "Daisy", "Freya", "Phoebe", "Alice", "Florence",
	"Margaret", "Susan", "Helen", "Sarah", "Claire", "Gillian", "Janet", "Anne",
}

var lastNames = []string{
	"Smith", "Jones", "Taylor", "Brown", "Williams", "Wilson", "Johnson", "Davies",
	"Robinson", "Wright", "Thompson", "Evans", "Walker", "White", "Roberts", "Green",
	"Hall", "Wood", "Jackson", "Clarke", "Harris", "Lewis", "Martin", "Cooper",
	"King", "Turner", "Hill", "Ward", "Baker", "Morris", "Moore", "Clark",
	"Harrison", "Scott", "Young", "Morgan", "Allen", "Mitchell", "Phillips", "James",
	"Watson", "Davis", "Parker", "Bennett", "Price", "Griffiths", "Collins", "Bailey",
}

// Домены распространённых британских почтовых провайдеров.
var emailProviders = []string{
	"gmail.com",
	"hotmail.co.uk",
	"outlook.com",
	"btinternet.com",
	"sky.com",
	"virgin.net",
	"talktalk.net",
	"yahoo.co.uk",
	"aol.co.uk",
	"live.co.uk",
	"live.com",
}

// Каналы привлечения участников.
var hearAboutOptions = []string{
	"facebook", "twitter", "instagram", "nextdoor", "friend", "poster", "other",
}
