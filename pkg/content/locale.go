package content

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/language"
)

// ErrUnsupportedLocale 没有对应数据表的语言
var ErrUnsupportedLocale = errors.New("content: unsupported locale")

// localeData holds the values a locale substitutes for names, places and
// words. English has no table and uses gofakeit directly.
type localeData struct {
	firstNames []string
	lastNames  []string
	streets    []string
	cities     []string
	countries  []string
	// companies 为公司名格式，%s 替换为姓氏
	companies []string
	jobs      []string
	words     []string

	// phone 和 postcode 中的 '#' 替换为数字
	phone    string
	postcode string
	address  func(street, number, postcode, city string) string

	familyFirst bool
	nameSep     string
	wordSep     string
	sentenceSep string
	fullStop    string
}

// localeTables 按语言子标签索引
var localeTables = map[string]*localeData{
	"en": nil,
	"de": &deData,
	"fr": &frData,
	"ru": &ruData,
	"zh": &zhData,
}

// SupportedLocales 返回可用的语言子标签
func SupportedLocales() []string {
	return []string{"de", "en", "fr", "ru", "zh"}
}

func lookupLocale(tag language.Tag) (*localeData, error) {
	base, _ := tag.Base()
	data, ok := localeTables[base.String()]
	if !ok {
		return nil, fmt.Errorf("%w %q, supported languages: %s",
			ErrUnsupportedLocale, tag, strings.Join(SupportedLocales(), ", "))
	}
	return data, nil
}

var deData = localeData{
	firstNames: []string{"Anna", "Lukas", "Marie", "Felix", "Sophie", "Jonas", "Lena", "Paul",
		"Hannah", "Leon", "Mia", "Maximilian", "Emma", "Elias", "Clara", "Jakob"},
	lastNames: []string{"Müller", "Schmidt", "Schneider", "Fischer", "Weber", "Meyer", "Wagner",
		"Becker", "Schulz", "Hoffmann", "Koch", "Richter", "Klein", "Wolf", "Schröder", "Neumann"},
	streets: []string{"Hauptstraße", "Schulstraße", "Gartenweg", "Bahnhofstraße", "Lindenallee",
		"Bergstraße", "Kirchplatz", "Am Markt", "Dorfstraße", "Goethestraße", "Mühlenweg", "Rosenstraße"},
	cities: []string{"Berlin", "Hamburg", "München", "Köln", "Frankfurt am Main", "Stuttgart",
		"Düsseldorf", "Leipzig", "Dortmund", "Bremen", "Dresden", "Hannover", "Nürnberg", "Freiburg"},
	countries: []string{"Deutschland", "Österreich", "Schweiz", "Frankreich", "Italien", "Spanien",
		"Niederlande", "Polen", "Dänemark", "Schweden", "Belgien", "Tschechien"},
	companies: []string{"%s GmbH", "%s AG", "%s KG", "%s GmbH & Co. KG", "%s e.K."},
	jobs: []string{"Bäcker", "Elektriker", "Lehrerin", "Ingenieur", "Krankenpfleger",
		"Steuerberaterin", "Architekt", "Tischler", "Bibliothekarin", "Softwareentwickler"},
	words: []string{"haus", "baum", "wasser", "stadt", "zeit", "arbeit", "licht", "weg", "garten",
		"brief", "fenster", "straße", "himmel", "nacht", "morgen", "freund", "buch", "tisch", "wald",
		"berg", "laufen", "schreiben", "schnell", "ruhig", "hell", "neu", "alt", "gut", "über", "größe"},
	phone:    "0### #######",
	postcode: "#####",
	address: func(street, number, postcode, city string) string {
		return street + " " + number + ", " + postcode + " " + city
	},
	nameSep:     " ",
	wordSep:     " ",
	sentenceSep: " ",
	fullStop:    ".",
}

var frData = localeData{
	firstNames: []string{"Camille", "Louis", "Léa", "Hugo", "Chloé", "Jules", "Manon", "Lucas",
		"Inès", "Gabriel", "Jade", "Arthur", "Louise", "Raphaël", "Zoé", "Nathan"},
	lastNames: []string{"Martin", "Bernard", "Dubois", "Thomas", "Robert", "Richard", "Petit",
		"Durand", "Leroy", "Moreau", "Simon", "Laurent", "Lefèvre", "Michel", "Garcia", "Fontaine"},
	streets: []string{"rue de la Paix", "rue Victor Hugo", "avenue des Champs", "boulevard Saint-Michel",
		"rue du Moulin", "place de l'Église", "rue des Écoles", "allée des Tilleuls", "chemin des Vignes",
		"rue Pasteur"},
	cities: []string{"Paris", "Lyon", "Marseille", "Toulouse", "Nice", "Nantes", "Strasbourg",
		"Montpellier", "Bordeaux", "Lille", "Rennes", "Reims", "Grenoble", "Dijon"},
	countries: []string{"France", "Belgique", "Suisse", "Allemagne", "Italie", "Espagne", "Canada",
		"Maroc", "Sénégal", "Portugal", "Luxembourg", "Tunisie"},
	companies: []string{"%s SA", "%s SARL", "%s SAS", "%s et Fils", "Groupe %s"},
	jobs: []string{"boulanger", "infirmière", "ingénieur", "professeur", "architecte",
		"pharmacienne", "menuisier", "comptable", "journaliste", "développeur"},
	words: []string{"maison", "arbre", "eau", "ville", "temps", "travail", "lumière", "chemin",
		"jardin", "lettre", "fenêtre", "rue", "ciel", "nuit", "matin", "ami", "livre", "table", "forêt",
		"montagne", "rapide", "calme", "clair", "nouveau", "ancien", "bon", "été", "île"},
	phone:    "0# ## ## ## ##",
	postcode: "#####",
	address: func(street, number, postcode, city string) string {
		return number + " " + street + ", " + postcode + " " + city
	},
	nameSep:     " ",
	wordSep:     " ",
	sentenceSep: " ",
	fullStop:    ".",
}

var ruData = localeData{
	firstNames: []string{"Александр", "Дмитрий", "Сергей", "Иван", "Михаил", "Андрей", "Алексей",
		"Николай", "Павел", "Владимир", "Егор", "Артём"},
	lastNames: []string{"Иванов", "Смирнов", "Кузнецов", "Попов", "Васильев", "Петров", "Соколов",
		"Михайлов", "Новиков", "Фёдоров", "Морозов", "Волков"},
	streets: []string{"ул. Ленина", "ул. Пушкина", "ул. Гагарина", "пр. Мира", "ул. Садовая",
		"ул. Лесная", "ул. Советская", "ул. Школьная", "наб. Фонтанки", "пер. Тихий"},
	cities: []string{"Москва", "Санкт-Петербург", "Новосибирск", "Екатеринбург", "Казань",
		"Нижний Новгород", "Самара", "Омск", "Ростов-на-Дону", "Уфа", "Красноярск", "Пермь"},
	countries: []string{"Россия", "Беларусь", "Казахстан", "Армения", "Германия", "Франция",
		"Китай", "Индия", "Бразилия", "Япония", "Италия", "Финляндия"},
	companies: []string{"ООО «%s»", "АО «%s»", "ПАО «%s»", "%s и партнёры"},
	jobs: []string{"инженер", "врач", "учитель", "бухгалтер", "программист", "архитектор",
		"водитель", "повар", "юрист", "библиотекарь"},
	words: []string{"дом", "дерево", "вода", "город", "время", "работа", "свет", "дорога", "сад",
		"письмо", "окно", "улица", "небо", "ночь", "утро", "друг", "книга", "стол", "лес", "гора",
		"быстрый", "тихий", "светлый", "новый", "старый", "хороший"},
	phone:    "+7 (9##) ###-##-##",
	postcode: "######",
	address: func(street, number, postcode, city string) string {
		return postcode + ", г. " + city + ", " + street + ", д. " + number
	},
	nameSep:     " ",
	wordSep:     " ",
	sentenceSep: " ",
	fullStop:    ".",
}

var zhData = localeData{
	firstNames: []string{"伟", "芳", "娜", "敏", "静", "丽", "强", "磊", "子涵", "浩然", "欣怡",
		"宇轩", "梓萱", "俊杰", "雨桐", "明"},
	lastNames: []string{"王", "李", "张", "刘", "陈", "杨", "黄", "赵", "吴", "周", "徐", "孙",
		"马", "朱", "胡", "郭"},
	streets: []string{"人民路", "解放路", "中山路", "建设路", "和平街", "长江路", "南京路", "文化路",
		"新华街", "光明路"},
	cities: []string{"北京", "上海", "广州", "深圳", "成都", "杭州", "武汉", "西安", "南京", "重庆",
		"天津", "苏州", "长沙", "青岛"},
	countries: []string{"中国", "日本", "韩国", "美国", "英国", "法国", "德国", "俄罗斯", "加拿大",
		"澳大利亚", "新加坡", "巴西"},
	companies: []string{"%s氏实业有限公司", "%s记商贸有限公司", "%s家食品有限公司", "%s氏科技集团"},
	jobs: []string{"工程师", "医生", "教师", "会计", "程序员", "设计师", "律师", "厨师", "记者",
		"销售经理"},
	words: []string{"天空", "城市", "时间", "工作", "光明", "道路", "花园", "书信", "窗户", "街道",
		"夜晚", "早晨", "朋友", "书籍", "桌子", "森林", "山峰", "河流", "快速", "安静", "明亮",
		"美好", "学习", "发展"},
	phone:    "1## #### ####",
	postcode: "######",
	address: func(street, number, postcode, city string) string {
		return postcode + " " + city + "市" + street + number + "号"
	},
	familyFirst: true,
	wordSep:     "",
	sentenceSep: "",
	fullStop:    "。",
}

// pick 随机取一项
func (f *Faker) pick(list []string) string {
	return list[f.fake.IntRange(0, len(list)-1)]
}

// digits 把 pattern 中的 '#' 替换为随机数字
func (f *Faker) digits(pattern string) string {
	var b strings.Builder
	for _, r := range pattern {
		if r == '#' {
			b.WriteString(f.fake.Digit())
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// FirstName 返回当前语言的名
func (f *Faker) FirstName() string {
	if f.data == nil {
		return f.fake.FirstName()
	}
	return f.pick(f.data.firstNames)
}

// LastName 返回当前语言的姓
func (f *Faker) LastName() string {
	if f.data == nil {
		return f.fake.LastName()
	}
	return f.pick(f.data.lastNames)
}

// Name 返回当前语言的姓名
func (f *Faker) Name() string {
	if f.data == nil {
		return f.fake.Name()
	}
	if f.data.familyFirst {
		return f.LastName() + f.data.nameSep + f.FirstName()
	}
	return f.FirstName() + f.data.nameSep + f.LastName()
}

// Street 返回街道名
func (f *Faker) Street() string {
	if f.data == nil {
		return f.fake.Street()
	}
	return f.pick(f.data.streets)
}

// City 返回城市名
func (f *Faker) City() string {
	if f.data == nil {
		return f.fake.City()
	}
	return f.pick(f.data.cities)
}

// Country 返回国家名
func (f *Faker) Country() string {
	if f.data == nil {
		return f.fake.Country()
	}
	return f.pick(f.data.countries)
}

// Address 返回按当地格式书写的完整地址
func (f *Faker) Address() string {
	if f.data == nil {
		return f.fake.Address().Address
	}
	number := strconv.Itoa(f.fake.IntRange(1, 199))
	return f.data.address(f.Street(), number, f.digits(f.data.postcode), f.City())
}

// Company 返回公司名
func (f *Faker) Company() string {
	if f.data == nil {
		return f.fake.Company()
	}
	return fmt.Sprintf(f.pick(f.data.companies), f.LastName())
}

// Job 返回职业名
func (f *Faker) Job() string {
	if f.data == nil {
		return f.fake.JobTitle()
	}
	return f.pick(f.data.jobs)
}

// Phone 返回按当地格式书写的电话号码
func (f *Faker) Phone() string {
	if f.data == nil {
		return f.fake.Phone()
	}
	return f.digits(f.data.phone)
}

// separators 返回词间、句间分隔符与句末标点
func (f *Faker) separators() (word, sentence, stop string) {
	if f.data == nil {
		return " ", " ", "."
	}
	return f.data.wordSep, f.data.sentenceSep, f.data.fullStop
}
