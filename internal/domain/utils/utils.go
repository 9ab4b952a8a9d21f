package utils

// Declension picks the russian plural form for n: formMany ("баллов"),
// formOne ("балл"), formFew ("балла").
func Declension(n int, formMany, formOne, formFew string) string {
	units := n % 10
	tens := (n / 10) % 10
	switch {
	case tens == 1:
		return formMany
	case units == 1:
		return formOne
	case units >= 2 && units <= 4:
		return formFew
	default:
		return formMany
	}
}
