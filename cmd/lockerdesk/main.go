package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/fulldump/goconfig"

	"github.com/fulldump/lockerdesk/bootstrap"
	"github.com/fulldump/lockerdesk/configuration"
)

var VERSION = "dev"

var banner = `
 _               _             ____            _    
| |    ___   ___| | _____ _ __|  _ \  ___  ___| | __
| |   / _ \ / __| |/ / _ \ '__| | | |/ _ \/ __| |/ /
| |__| (_) | (__|   <  __/ |  | |_| |  __/\__ \   < 
|_____\___/ \___|_|\_\___|_|  |____/ \___||___/_|\_\
                                   version ` + VERSION + `
`

func main() {

	c := configuration.Default()
	goconfig.Read(c)

	if c.Version {
		fmt.Println("Version:", VERSION)
		return
	}

	if c.ShowBanner {
		fmt.Println(banner)
	}

	if c.ShowConfig {
		e := json.NewEncoder(os.Stdout)
		e.SetIndent("", "    ")
		e.Encode(c)
	}

	bootstrap.VERSION = VERSION
	start, _ := bootstrap.Bootstrap(c)
	start()
}
