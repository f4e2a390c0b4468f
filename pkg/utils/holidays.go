package util

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"Sistem-Absensi-Cuti/models"

	"github.com/teambition/rrule-go"
)

const dateLayout = "2006-01-02"

// HolidayAPIData adalah struct helper untuk parsing JSON dari API
type HolidayAPIData struct {
	Date              string `json:"holiday_date"`
	Name              string `json:"holiday_name"`
	IsNationalHoliday bool   `json:"is_national_holiday"`
}

// GetNationalHolidays mengambil hari libur nasional dari API eksternal.
func GetNationalHolidays(year string) ([]models.Holiday, error) {
	resp, err := http.Get("https://api-harilibur.vercel.app/api?year=" + year)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var rawHolidays []HolidayAPIData
	if err := json.Unmarshal(body, &rawHolidays); err != nil {
		return nil, err
	}

	var holidays []models.Holiday
	for _, rawHoliday := range rawHolidays {
		if rawHoliday.IsNationalHoliday {
			holidays = append(holidays, models.Holiday{
				Date: rawHoliday.Date,
				Name: rawHoliday.Name,
			})
		}
	}
	return holidays, nil
}

// ExpandHolidayRules mengekspansi aturan libur perusahaan (RRULE) menjadi
// daftar tanggal konkret di dalam rentang [start, end]. Aturan yang tidak
// bisa diparse dilewati saja.
func ExpandHolidayRules(rules []models.HolidayRule, start, end time.Time) []models.Holiday {
	holidays := []models.Holiday{}

	for _, rule := range rules {
		if rule.RecurrenceRule == "" {
			continue
		}

		rOption, err := rrule.StrToROption(rule.RecurrenceRule)
		if err != nil {
			continue
		}

		ruleStartDate, err := time.Parse(dateLayout, rule.StartDate)
		if err != nil {
			continue
		}
		rOption.Dtstart = ruleStartDate

		rr, err := rrule.NewRRule(*rOption)
		if err != nil {
			continue
		}

		ruleSet := rrule.Set{}
		ruleSet.RRule(rr)

		for _, instance := range ruleSet.Between(start, end, true) {
			holidays = append(holidays, models.Holiday{
				Date: instance.Format(dateLayout),
				Name: rule.Name,
			})
		}
	}

	return holidays
}
