package payroll

// Gross is the plain sum of the pay components; tax and deductions are
// handled outside this system.
func Gross(basicPay, otPay, incentives float64) float64 {
	return basicPay + otPay + incentives
}
