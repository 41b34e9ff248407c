package route

import (
	"fmt"
	"strconv"
)

// Роутер шардов basket-NN.wb.ru: артикул детерминированно отображается в
// хост и путь до документов карточки. Чистая функция, без состояния.

// MakeHead выбирает шард по десяти фиксированным диапазонам артикулов.
func MakeHead(nmID int) string {
	var number string
	switch {
	case nmID < 14400000:
		number = "01"
	case nmID < 28800000:
		number = "02"
	case nmID < 43500000:
		number = "03"
	case nmID < 72000000:
		number = "04"
	case nmID < 100800000:
		number = "05"
	case nmID < 106300000:
		number = "06"
	case nmID < 111600000:
		number = "07"
	case nmID < 117000000:
		number = "08"
	case nmID < 131400000:
		number = "09"
	default:
		number = "10"
	}
	return "https://basket-" + number + ".wb.ru"
}

// MakeTail строит сегменты vol/part срезом старших цифр артикула.
// Ширина среза задается количеством цифр, это не хеш.
func MakeTail(nmID int, item string) string {
	article := strconv.Itoa(nmID)
	length := len(article)

	var vol, part string
	switch {
	case length <= 3:
		vol, part = "0", "0"
	case length == 4:
		vol, part = "0", article[:1]
	case length == 5:
		vol, part = "0", article[:2]
	case length == 6:
		vol, part = article[:1], article[:3]
	case length == 7:
		vol, part = article[:2], article[:4]
	case length == 8:
		vol, part = article[:3], article[:5]
	default:
		vol, part = article[:4], article[:6]
	}
	return fmt.Sprintf("/vol%s/part%s/%s/info/%s", vol, part, article, item)
}

// CardURL — полный адрес документа card.json для артикула.
func CardURL(nmID int) string {
	return MakeHead(nmID) + MakeTail(nmID, "ru/card.json")
}
