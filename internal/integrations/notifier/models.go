package notifier

// emailRequest запрос на отправку email-уведомления
type emailRequest struct {
	Address string `json:"address"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// smsRequest запрос на отправку sms-уведомления
type smsRequest struct {
	Number string `json:"number"`
	Body   string `json:"body"`
}
