// SPDX-License-Identifier: AGPL-3.0-or-later

package chart

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/bartekus/devupdates/internal/gitstats"
)

const (
	blue      = "#4A90D9"
	punchW    = 700
	punchH    = 300
	daysShown = 7
	hoursADay = 24
)

// Daily holds the chart URLs of one daily stats post. Empty fields mean the
// chart had no data.
type Daily struct {
	CommitLine string `json:"commit_line,omitempty"`
	PunchCard  string `json:"punch_card,omitempty"`
}

// ForDay builds the commit activity and punch card charts of a DailyStat.
func (b *Builder) ForDay(ctx context.Context, day gitstats.DailyStat) (Daily, error) {
	var out Daily
	if len(day.Git.CommitsByDate) > 0 {
		u, err := b.CommitLine(ctx, day.Git.CommitsByDate)
		if err != nil {
			return Daily{}, err
		}
		out.CommitLine = u
	}
	if len(day.PunchCard) > 0 {
		out.PunchCard = b.PunchCard(ctx, day.PunchCard)
	}
	return out, nil
}

// CommitLine is an area line chart of commits per active date, labelled MM-DD.
func (b *Builder) CommitLine(ctx context.Context, commitsByDate map[string]int) (string, error) {
	dates := make([]string, 0, len(commitsByDate))
	for d := range commitsByDate {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	labels := make([]string, len(dates))
	data := make([]int, len(dates))
	for i, d := range dates {
		labels[i] = d
		if len(d) > 5 {
			labels[i] = d[5:]
		}
		data[i] = commitsByDate[d]
	}

	config := map[string]any{
		"type": "line",
		"data": map[string]any{
			"labels": labels,
			"datasets": []map[string]any{{
				"label":                "Commits",
				"data":                 data,
				"fill":                 true,
				"backgroundColor":      "rgba(74, 144, 217, 0.2)",
				"borderColor":          blue,
				"borderWidth":          2,
				"pointRadius":          3,
				"pointBackgroundColor": blue,
				"tension":              0.3,
			}},
		},
		"options": map[string]any{
			"title":  map[string]any{"display": true, "text": "Commit Activity Over Time", "fontSize": 14},
			"legend": map[string]any{"display": false},
			"scales": map[string]any{
				"yAxes": []map[string]any{{"ticks": map[string]any{"beginAtZero": true, "stepSize": 1}}},
				"xAxes": []map[string]any{{"ticks": map[string]any{"maxRotation": 45}}},
			},
		},
	}
	return b.URL(ctx, config, Width, Height)
}

type punchLevel struct {
	label   string
	lo, hi  int
	color   string
	radius  int
	members []string
}

// weekdayRow maps git's 0=Sunday weekday to a Monday-first y axis row.
var weekdayRow = [daysShown]int{6, 0, 1, 2, 3, 4, 5}

// PunchCard is a weekday by hour bubble heatmap in a warm palette. It is
// written as raw JavaScript so the axes can label hours and day names.
func (b *Builder) PunchCard(ctx context.Context, cells []gitstats.PunchCell) string {
	return b.RawURL(ctx, PunchCardJS(cells), punchW, punchH)
}

// PunchCardJS renders the bubble chart configuration source.
func PunchCardJS(cells []gitstats.PunchCell) string {
	grid := make(map[[2]int]int)
	for _, c := range cells {
		grid[[2]int{c.Weekday, c.Hour}] = c.Count
	}

	levels := []*punchLevel{
		{label: "1-2", lo: 1, hi: 2, color: "#FFCC80", radius: 5},
		{label: "3-4", lo: 3, hi: 4, color: "#FF9800", radius: 8},
		{label: "5+", lo: 5, hi: 99, color: "#D84315", radius: 11},
	}
	for day := 0; day < daysShown; day++ {
		for hour := 0; hour < hoursADay; hour++ {
			n := grid[[2]int{day, hour}]
			if n == 0 {
				continue
			}
			for _, l := range levels {
				if n >= l.lo && n <= l.hi {
					r := l.radius + min(n-l.lo, 3)
					l.members = append(l.members, fmt.Sprintf("{x:%d,y:%d,r:%d}", hour, weekdayRow[day], r))
					break
				}
			}
		}
	}

	var datasets []string
	for _, l := range levels {
		if len(l.members) == 0 {
			continue
		}
		datasets = append(datasets, fmt.Sprintf(
			"{label:'%s commits',data:[%s],backgroundColor:'%s',borderColor:'%s',borderWidth:0,hoverRadius:0}",
			l.label, strings.Join(l.members, ","), l.color, l.color))
	}

	return "{" +
		"type:'bubble'," +
		"data:{datasets:[" + strings.Join(datasets, ",") + "]}," +
		"options:{" +
		"title:{display:true,text:'Coding Activity Heatmap',fontSize:14}," +
		"legend:{display:true,position:'bottom',labels:{boxWidth:12,fontSize:10,padding:8}}," +
		"scales:{" +
		"xAxes:[{" +
		"ticks:{min:-1,max:24,stepSize:1," +
		"callback:function(v){" +
		"if(v<0||v>23)return '';" +
		"if(v%3!==0)return '';" +
		"if(v===0)return '12a';" +
		"if(v<12)return v+'a';" +
		"if(v===12)return '12p';" +
		"return(v-12)+'p'" +
		"}}," +
		"gridLines:{display:false}," +
		"scaleLabel:{display:true,labelString:'Hour of Day',fontSize:11}" +
		"}]," +
		"yAxes:[{" +
		"ticks:{min:-0.5,max:6.5,stepSize:1," +
		"callback:function(v){" +
		"return['Mon','Tue','Wed','Thu','Fri','Sat','Sun'][v]||''" +
		"}}," +
		"gridLines:{color:'rgba(0,0,0,0.05)',drawBorder:false}" +
		"}]" +
		"}" +
		"}" +
		"}"
}
