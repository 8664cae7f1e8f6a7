package main

import (
	"embed"
	"fmt"
	"strings"
)

//go:embed seed/*.b64
var seedPics embed.FS

// seedProfile is a literal seed row; the picture is loaded from seed/<username>.b64.
type seedProfile struct {
	username    string
	upshot      string
	sunSign     string
	industry    string
	description string
}

// Order matters: it is the order every unsorted list view renders in.
var seedProfiles = []seedProfile{
	{
		username:    "stevejobs",
		upshot:      "Co-founder of Apple and Pixar.",
		sunSign:     "Pisces",
		industry:    "tech",
		description: "Steve Jobs co-founded Apple in a garage in 1976, was pushed out in 1985, founded NeXT, bought what became Pixar, and returned to Apple to ship the iMac, iPod, iPhone and iPad.",
	},
	{
		username:    "jeffbezos",
		upshot:      "Founder of Amazon and Blue Origin.",
		sunSign:     "Capricorn",
		industry:    "tech",
		description: "Jeff Bezos left a hedge fund in 1994 to sell books online. Amazon grew into a retailer of everything and, through AWS, into the largest cloud provider in the world.",
	},
	{
		username:    "billgates",
		upshot:      "Co-founder of Microsoft.",
		sunSign:     "Scorpio",
		industry:    "tech",
		description: "Bill Gates dropped out of Harvard to co-found Microsoft with Paul Allen. After decades of running the company he turned to global health through his foundation.",
	},
	{
		username:    "warrenbuffett",
		upshot:      "Chairman and CEO of Berkshire Hathaway.",
		sunSign:     "Virgo",
		industry:    "finance",
		description: "Warren Buffett bought his first stock at eleven and turned a failing textile mill, Berkshire Hathaway, into one of the largest conglomerates on earth by buying wonderful businesses at fair prices.",
	},
	{
		username:    "markzuckerberg",
		upshot:      "Founder of Facebook, now Meta.",
		sunSign:     "Taurus",
		industry:    "tech",
		description: "Mark Zuckerberg launched thefacebook.com from a Harvard dorm room in 2004. The company later bought Instagram and WhatsApp and renamed itself Meta.",
	},
	{
		username:    "sundarpichai",
		upshot:      "CEO of Google and Alphabet.",
		sunSign:     "Gemini",
		industry:    "tech",
		description: "Sundar Pichai joined Google in 2004 to work on the toolbar, led the Chrome and Android efforts, and became CEO of Google in 2015 and of Alphabet in 2019.",
	},
	{
		username:    "larrypage",
		upshot:      "Co-founder of Google.",
		sunSign:     "Aries",
		industry:    "tech",
		description: "Larry Page co-wrote PageRank with Sergey Brin as a Stanford PhD student. The two founded Google in 1998; Page served twice as its CEO.",
	},
	{
		username:    "satyanadella",
		upshot:      "CEO of Microsoft.",
		sunSign:     "Leo",
		industry:    "tech",
		description: "Satya Nadella joined Microsoft in 1992, ran its server and cloud business, and became CEO in 2014, steering the company towards Azure and open source.",
	},
	{
		username:    "timcook",
		upshot:      "CEO of Apple.",
		sunSign:     "Scorpio",
		industry:    "tech",
		description: "Tim Cook rebuilt Apple's supply chain in the late nineties and succeeded Steve Jobs as CEO in 2011.",
	},
	{
		username:    "jackma",
		upshot:      "Co-founder of Alibaba Group.",
		sunSign:     "Virgo",
		industry:    "e-commerce",
		description: "Jack Ma was an English teacher in Hangzhou before founding Alibaba in his apartment in 1999, building it into China's largest e-commerce company.",
	},
	{
		username:    "lebronjames",
		upshot:      "Four-time NBA champion.",
		sunSign:     "Capricorn",
		industry:    "sports",
		description: "LeBron James went straight from high school to the NBA in 2003 and became the league's all-time leading scorer in 2023.",
	},
	{
		username:    "satoshinakamoto",
		upshot:      "Pseudonymous creator of Bitcoin.",
		sunSign:     "Aries",
		industry:    "unknown",
		description: "Satoshi Nakamoto published the Bitcoin white paper in 2008, mined its genesis block in 2009, and stopped communicating publicly in 2011. Their identity remains unknown.",
	},
}

// loadSeedProfiles materialises the literal seed list, attaching each
// profile's picture from the embedded data files.
func loadSeedProfiles() ([]Profile, error) {
	profiles := make([]Profile, 0, len(seedProfiles))
	for _, s := range seedProfiles {
		pic, err := seedPics.ReadFile("seed/" + s.username + ".b64")
		if err != nil {
			return nil, fmt.Errorf("loading picture for %s: %w", s.username, err)
		}
		profiles = append(profiles, Profile{
			Username:      s.username,
			Upshot:        s.upshot,
			SunSign:       s.sunSign,
			Industry:      s.industry,
			Description:   s.description,
			ProfilePicB64: strings.TrimSpace(string(pic)),
		})
	}
	return profiles, nil
}
