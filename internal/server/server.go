package server

import (
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

// Echoを組み立てて返す。ルート登録はroutes.goに寄せる。
func New() *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	e.Use(echomw.Logger())
	e.Use(echomw.Recover())

	return e
}

func Start(e *echo.Echo, port string) error {
	return e.Start(":" + port)
}
