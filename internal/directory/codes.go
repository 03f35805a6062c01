package directory

const (
	CategorySeasonPeriod = "season-period"
	CategoryCropCategory = "crop-category"
	CategoryCrop         = "crop"
	CategoryRegion       = "region"
)

// season period codes, in the order a walk visits them
const (
	SeasonAllYear = "03"
	SeasonFirst   = "01"
	SeasonSecond  = "02"
	SeasonOther   = "00"
)

// SeasonPeriodOrder is the fixed enumeration order of a walk.
var SeasonPeriodOrder = []string{SeasonAllYear, SeasonFirst, SeasonSecond, SeasonOther}

func SeasonPeriods() Table {
	return NewTable(
		CategorySeasonPeriod,
		Entry{Code: SeasonOther, Name: "裡作"},
		Entry{Code: SeasonFirst, Name: "一期作"},
		Entry{Code: SeasonSecond, Name: "二期作"},
		Entry{Code: SeasonAllYear, Name: "全年作"},
	)
}

func CropCategories() Table {
	return NewTable(
		CategoryCropCategory,
		Entry{Code: "01", Name: "雜糧類"},
		Entry{Code: "02", Name: "蔬菜類"},
		Entry{Code: "03", Name: "果品類"},
		Entry{Code: "04", Name: "牧草類"},
		Entry{Code: "05", Name: "特用作物類"},
		Entry{Code: "06", Name: "花卉"},
		Entry{Code: "07", Name: "綠肥類"},
		Entry{Code: "08", Name: "其他類"},
	)
}

func Regions() Table {
	return NewTable(
		CategoryRegion,
		Entry{Code: "0001", Name: "新北市"},
		Entry{Code: "0002", Name: "宜蘭縣"},
		Entry{Code: "0003", Name: "桃園市"},
		Entry{Code: "0004", Name: "新竹縣"},
		Entry{Code: "0005", Name: "苗栗縣"},
		Entry{Code: "0006", Name: "臺中市"},
		Entry{Code: "0007", Name: "彰化縣"},
		Entry{Code: "0008", Name: "南投縣"},
		Entry{Code: "0009", Name: "雲林縣"},
		Entry{Code: "0010", Name: "嘉義縣"},
		Entry{Code: "0011", Name: "臺南市"},
		Entry{Code: "0012", Name: "高雄市"},
		Entry{Code: "0013", Name: "屏東縣"},
		Entry{Code: "0014", Name: "臺東縣"},
		Entry{Code: "0015", Name: "花蓮縣"},
		Entry{Code: "0016", Name: "澎湖縣"},
		Entry{Code: "0017", Name: "基隆市"},
		Entry{Code: "0018", Name: "新竹市"},
		Entry{Code: "0020", Name: "嘉義市"},
		Entry{Code: "0063", Name: "臺北市"},
		Entry{Code: "0065", Name: "金門縣"},
		Entry{Code: "0066", Name: "連江縣"},
	)
}
