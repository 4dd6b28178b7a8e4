package catalog

import "botanicaltour/internal/domain"

const StartPoint = "entrance"

func loc(id, title, description, image string, x, y int, conns map[domain.Direction]string) domain.Location {
	return domain.Location{
		ID:          id,
		Title:       title,
		Description: description,
		ImagePath:   "images/" + image,
		Coordinates: domain.Coordinates{X: x, Y: y},
		Connections: conns,
	}
}

// tourLocations is the static tour graph of the garden.
var tourLocations = []domain.Location{
	loc("entrance", "Головний вхід", "Ласкаво просимо до Ботанічного саду", "1entrance-min.JPG", 0, 0,
		map[domain.Direction]string{domain.DirectionUp: "seasons"}),
	loc("seasons", "Пори року", "Сад змінює своє обличчя відповідно до сезону", "2seasons-min.JPG", 0, 1,
		map[domain.Direction]string{
			domain.DirectionLeft:  "mountain",
			domain.DirectionRight: "korean",
			domain.DirectionUp:    "rhododendron",
			domain.DirectionDown:  "entrance",
		}),
	loc("mountain", "Гірський сад", "Колекція гірських рослин та альпійських луків", "3mountain-min.JPG", -1, 1,
		map[domain.Direction]string{domain.DirectionLeft: "birch", domain.DirectionRight: "seasons"}),
	loc("korean", "Корейський сад", "Традиційний корейський сад з характерними рослинами", "4korean-min.JPG", 1, 1,
		map[domain.Direction]string{domain.DirectionLeft: "seasons", domain.DirectionRight: "middle_asia"}),
	loc("birch", "Березовий гай", "Мальовничий куточок саду з березовим гаєм", "5birch-min.JPG", -2, 1,
		map[domain.Direction]string{domain.DirectionRight: "mountain"}),
	loc("middle_asia", "Середня Азія", "Рослини, характерні для Середньої Азії", "6middle_asia-min.JPG", 2, 1,
		map[domain.Direction]string{domain.DirectionLeft: "korean"}),
	loc("rhododendron", "Рододендрони", "Колекція різноманітних видів рододендронів", "7rhododendron-min.JPG", 0, 2,
		map[domain.Direction]string{
			domain.DirectionLeft:  "conifer",
			domain.DirectionRight: "orangery",
			domain.DirectionUp:    "monastery",
			domain.DirectionDown:  "seasons",
		}),
	loc("conifer", "Хвойні", "Колекція хвойних дерев та кущів", "8conifer-min.JPG", -1, 2,
		map[domain.Direction]string{domain.DirectionRight: "rhododendron"}),
	loc("orangery", "Оранжерейний комплекс", "Колекція тропічних та субтропічних рослин", "9orangery-min.JPG", 1, 2,
		map[domain.Direction]string{domain.DirectionLeft: "rhododendron"}),
	loc("monastery", "Свято-Троїцький Іонінський монастир", "Історична пам'ятка архітектури на території саду", "10monastery-min.JPG", 0, 3,
		map[domain.Direction]string{
			domain.DirectionLeft:  "lilac",
			domain.DirectionRight: "garden",
			domain.DirectionDown:  "rhododendron",
		}),
	loc("lilac", "Сад бузків", "Найбільша колекція бузку в Україні", "11lilac-min.JPG", -1, 3,
		map[domain.Direction]string{domain.DirectionRight: "monastery"}),
	loc("garden", "Сад магнолій", "Мальовничий куточок ботанічного саду", "12garden-min.JPG", 1, 3,
		map[domain.Direction]string{domain.DirectionLeft: "monastery"}),
}
