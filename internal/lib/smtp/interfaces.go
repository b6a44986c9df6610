// Package smtp реализует транспорт для отправки почтовых уведомлений.
package smtp

import "io"

// Client описывает минимальный набор операций SMTP-клиента,
// используемый отправителем. Позволяет подменять клиента моком в тестах.
type Client interface {
	Mail(from string) error
	Rcpt(to string) error
	Data() (io.WriteCloser, error)
	Quit() error
	Close() error
}

// Transporter описывает транспорт, умеющий устанавливать SMTP-соединение.
type Transporter interface {
	Connect() (Client, error)
	GetSMTPUser() string
}
